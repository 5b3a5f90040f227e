package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/payments"
	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

// PaidCheckout carries the already-collected gateway payment the order is
// settling. The signature must verify before any row is written.
type PaidCheckout struct {
	AmountPaise       int64  `json:"amountPaise" validate:"required,gt=0"`
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	Signature         string `json:"signature" validate:"required"`
}

// PlaceOrderInput is the payload for purchasing a card.
type PlaceOrderInput struct {
	CardID          uuid.UUID     `json:"cardId" validate:"required"`
	FullName        string        `json:"fullName" validate:"required,min=2,max=120"`
	Designation     string        `json:"designation" validate:"required,min=2,max=120"`
	Phone           string        `json:"phone" validate:"required,min=8,max=20"`
	Email           string        `json:"email" validate:"required,email"`
	Quantity        int           `json:"quantity" validate:"required,gte=1"`
	LogoImage       string        `json:"logoImage" validate:"omitempty,url"`
	DeliveryAddress string        `json:"deliveryAddress" validate:"omitempty,max=500"`
	Paid            *PaidCheckout `json:"paid" validate:"omitempty"`
}

// UpdateStatusInput names the next lifecycle state.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// OrderView is the wire shape for a card order.
type OrderView struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"userId"`
	CardID           uuid.UUID         `json:"cardId"`
	ProfileID        *uuid.UUID        `json:"profileId,omitempty"`
	FullName         string            `json:"fullName"`
	Designation      string            `json:"designation"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Quantity         int               `json:"quantity"`
	Status           enums.OrderStatus `json:"status"`
	LogoImage        *string           `json:"logoImage,omitempty"`
	DeliveryAddress  *string           `json:"deliveryAddress,omitempty"`
	TotalAmountPaise *int64            `json:"totalAmountPaise,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// PlaceOrderResult bundles everything the creation transaction produced.
type PlaceOrderResult struct {
	Order   OrderView             `json:"order"`
	Profile profiles.ProfileView  `json:"profile"`
	Payment *payments.PaymentView `json:"payment,omitempty"`
}

// NewOrderView maps the model to its wire shape.
func NewOrderView(order *models.CardOrder) OrderView {
	return OrderView{
		ID:               order.ID,
		UserID:           order.UserID,
		CardID:           order.CardID,
		ProfileID:        order.ProfileID,
		FullName:         order.FullName,
		Designation:      order.Designation,
		Phone:            order.Phone,
		Email:            order.Email,
		Quantity:         order.Quantity,
		Status:           order.Status,
		LogoImage:        order.LogoImage,
		DeliveryAddress:  order.DeliveryAddress,
		TotalAmountPaise: order.TotalAmountPaise,
		CreatedAt:        order.CreatedAt,
	}
}

// NewOrderViews maps a slice of models.
func NewOrderViews(orders []models.CardOrder) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderView(&orders[i]))
	}
	return out
}
