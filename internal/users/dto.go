package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

// RegisterInput is the public signup payload.
type RegisterInput struct {
	FullName     string `json:"fullName" validate:"required,min=2,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Phone        string `json:"phone" validate:"omitempty,min=8,max=20"`
	AccountType  string `json:"accountType" validate:"omitempty,oneof=personal business"`
	ReferralCode string `json:"referralCode" validate:"omitempty,max=40"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateStaffInput is the admin payload for provisioning sales/admin accounts.
type CreateStaffInput struct {
	FullName     string `json:"fullName" validate:"required,min=2,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Role         string `json:"role" validate:"required"`
	ReferralCode string `json:"referralCode" validate:"omitempty,max=40"`
}

// UserView is the wire shape for a user, with credentials stripped.
type UserView struct {
	ID           uuid.UUID  `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Role         enums.Role `json:"role"`
	AccountType  string     `json:"accountType"`
	ReferralID   *uuid.UUID `json:"referralId,omitempty"`
	ReferralCode *string    `json:"referralCode,omitempty"`
	IsOrdered    bool       `json:"isOrdered"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// AuthResult carries a minted token plus the authenticated user.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// NewUserView maps the model to its wire shape.
func NewUserView(user *models.User) UserView {
	return UserView{
		ID:           user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		AccountType:  user.AccountType.String(),
		ReferralID:   user.ReferralID,
		ReferralCode: user.ReferralCode,
		IsOrdered:    user.IsOrdered,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
	}
}

// NewUserViews maps a slice of models.
func NewUserViews(users []models.User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, NewUserView(&users[i]))
	}
	return out
}
