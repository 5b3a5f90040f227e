package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

// CreateProfileInput is the staff payload for provisioning a profile
// outside the order flow.
type CreateProfileInput struct {
	UserID      uuid.UUID `json:"userId" validate:"required"`
	FullName    string    `json:"fullName" validate:"required,min=2,max=120"`
	Designation string    `json:"designation" validate:"required,min=2,max=120"`
	Phone       string    `json:"phone" validate:"required,min=8,max=20"`
	Email       string    `json:"email" validate:"required,email"`
	CompanyName string    `json:"companyName" validate:"omitempty,max=160"`
	Bio         string    `json:"bio" validate:"omitempty,max=2000"`
	Website     string    `json:"website" validate:"omitempty,url"`
	LogoImage   string    `json:"logoImage" validate:"omitempty,url"`
}

// UpdateProfileInput carries owner edits. Nil fields are left as is.
type UpdateProfileInput struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=2,max=120"`
	Designation *string `json:"designation" validate:"omitempty,min=2,max=120"`
	Phone       *string `json:"phone" validate:"omitempty,min=8,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	CompanyName *string `json:"companyName" validate:"omitempty,max=160"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url"`
	LogoImage   *string `json:"logoImage" validate:"omitempty,url"`
	Linkedin    *string `json:"linkedin" validate:"omitempty,url"`
	Instagram   *string `json:"instagram" validate:"omitempty,url"`
	Twitter     *string `json:"twitter" validate:"omitempty,url"`
}

// TransferInput names the profile to move and its new owner.
type TransferInput struct {
	ProfileID uuid.UUID `json:"profileId" validate:"required"`
	UserID    uuid.UUID `json:"userId" validate:"required"`
}

// ProfileView is the authenticated wire shape for a profile.
type ProfileView struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	ViewID         string     `json:"viewId"`
	CardOrderID    *uuid.UUID `json:"cardOrderId,omitempty"`
	FullName       string     `json:"fullName"`
	Designation    string     `json:"designation"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	CompanyName    *string    `json:"companyName,omitempty"`
	Bio            *string    `json:"bio,omitempty"`
	Website        *string    `json:"website,omitempty"`
	LogoImage      *string    `json:"logoImage,omitempty"`
	Linkedin       *string    `json:"linkedin,omitempty"`
	Instagram      *string    `json:"instagram,omitempty"`
	Twitter        *string    `json:"twitter,omitempty"`
	IsActive       bool       `json:"isActive"`
	IsAdminCreated bool       `json:"isAdminCreated"`
	ViewCount      int64      `json:"viewCount"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// PublicOwner is the reduced owner shape exposed on the public page.
type PublicOwner struct {
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	Role     enums.Role `json:"role"`
}

// PublicProfileView is what an unauthenticated visitor sees.
type PublicProfileView struct {
	ViewID      string      `json:"viewId"`
	FullName    string      `json:"fullName"`
	Designation string      `json:"designation"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	CompanyName *string     `json:"companyName,omitempty"`
	Bio         *string     `json:"bio,omitempty"`
	Website     *string     `json:"website,omitempty"`
	LogoImage   *string     `json:"logoImage,omitempty"`
	Linkedin    *string     `json:"linkedin,omitempty"`
	Instagram   *string     `json:"instagram,omitempty"`
	Twitter     *string     `json:"twitter,omitempty"`
	Owner       PublicOwner `json:"owner"`
}

// NewProfileView maps the model to its authenticated wire shape.
func NewProfileView(profile *models.Profile) ProfileView {
	return ProfileView{
		ID:             profile.ID,
		UserID:         profile.UserID,
		ViewID:         profile.ViewID,
		CardOrderID:    profile.CardOrderID,
		FullName:       profile.FullName,
		Designation:    profile.Designation,
		Phone:          profile.Phone,
		Email:          profile.Email,
		CompanyName:    profile.CompanyName,
		Bio:            profile.Bio,
		Website:        profile.Website,
		LogoImage:      profile.LogoImage,
		Linkedin:       profile.Linkedin,
		Instagram:      profile.Instagram,
		Twitter:        profile.Twitter,
		IsActive:       profile.IsActive,
		IsAdminCreated: profile.IsAdminCreated,
		ViewCount:      profile.ViewCount,
		CreatedAt:      profile.CreatedAt,
	}
}

// NewProfileViews maps a slice of models.
func NewProfileViews(profiles []models.Profile) []ProfileView {
	out := make([]ProfileView, 0, len(profiles))
	for i := range profiles {
		out = append(out, NewProfileView(&profiles[i]))
	}
	return out
}

// NewPublicProfileView maps a profile and its owner to the public shape.
func NewPublicProfileView(profile *models.Profile, owner *models.User) PublicProfileView {
	return PublicProfileView{
		ViewID:      profile.ViewID,
		FullName:    profile.FullName,
		Designation: profile.Designation,
		Phone:       profile.Phone,
		Email:       profile.Email,
		CompanyName: profile.CompanyName,
		Bio:         profile.Bio,
		Website:     profile.Website,
		LogoImage:   profile.LogoImage,
		Linkedin:    profile.Linkedin,
		Instagram:   profile.Instagram,
		Twitter:     profile.Twitter,
		Owner: PublicOwner{
			FullName: owner.FullName,
			Email:    owner.Email,
			Role:     owner.Role,
		},
	}
}
