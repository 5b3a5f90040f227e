package connects

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// CaptureInput is what an unauthenticated visitor submits from the public
// card page.
type CaptureInput struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=120"`
	PhoneNumber string `json:"phoneNumber" validate:"required,min=8,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	CompanyName string `json:"companyName" validate:"omitempty,max=160"`
	Designation string `json:"designation" validate:"omitempty,max=120"`
}

// UpdateLabelInput renames the lead bucket a connect sits in.
type UpdateLabelInput struct {
	LeadLabel string `json:"leadLabel" validate:"required,min=1,max=40"`
}

// ConnectView is the wire shape for a captured lead.
type ConnectView struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profileId"`
	UserID      uuid.UUID `json:"userId"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       *string   `json:"email,omitempty"`
	CompanyName *string   `json:"companyName,omitempty"`
	Designation *string   `json:"designation,omitempty"`
	LeadLabel   string    `json:"leadLabel"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewConnectView maps the model to its wire shape.
func NewConnectView(connect *models.Connect) ConnectView {
	return ConnectView{
		ID:          connect.ID,
		ProfileID:   connect.ProfileID,
		UserID:      connect.UserID,
		FullName:    connect.FullName,
		PhoneNumber: connect.PhoneNumber,
		Email:       connect.Email,
		CompanyName: connect.CompanyName,
		Designation: connect.Designation,
		LeadLabel:   connect.LeadLabel,
		CreatedAt:   connect.CreatedAt,
	}
}

// NewConnectViews maps a slice of models.
func NewConnectViews(connects []models.Connect) []ConnectView {
	out := make([]ConnectView, 0, len(connects))
	for i := range connects {
		out = append(out, NewConnectView(&connects[i]))
	}
	return out
}
