package cards

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// CreateCardInput is the admin payload for adding a catalog design.
type CreateCardInput struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	Category   string `json:"category" validate:"required,min=2,max=80"`
	FrontImage string `json:"frontImage" validate:"required,url"`
	BackImage  string `json:"backImage" validate:"omitempty,url"`
	PricePaise int64  `json:"pricePaise" validate:"required,gt=0"`
}

// UpdateCardInput carries partial catalog edits. Nil fields are left as is.
type UpdateCardInput struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=120"`
	Category   *string `json:"category" validate:"omitempty,min=2,max=80"`
	FrontImage *string `json:"frontImage" validate:"omitempty,url"`
	BackImage  *string `json:"backImage" validate:"omitempty,url"`
	PricePaise *int64  `json:"pricePaise" validate:"omitempty,gt=0"`
}

// CardView is the wire shape for a catalog card.
type CardView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	FrontImage string    `json:"frontImage"`
	BackImage  *string   `json:"backImage,omitempty"`
	PricePaise int64     `json:"pricePaise"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCardView maps the model to its wire shape.
func NewCardView(card *models.Card) CardView {
	return CardView{
		ID:         card.ID,
		Name:       card.Name,
		Category:   card.Category,
		FrontImage: card.FrontImage,
		BackImage:  card.BackImage,
		PricePaise: card.PricePaise,
		IsActive:   card.IsActive,
		CreatedAt:  card.CreatedAt,
	}
}

// NewCardViews maps a slice of models.
func NewCardViews(cards []models.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for i := range cards {
		out = append(out, NewCardView(&cards[i]))
	}
	return out
}
