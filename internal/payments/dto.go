package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

// CreateLinkInput requests a hosted payment link for a card order.
type CreateLinkInput struct {
	CardOrderID uuid.UUID `json:"cardOrderId" validate:"required"`
}

// VerifyInput carries the checkout callback fields the client posts back
// after paying.
type VerifyInput struct {
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	Signature         string `json:"signature" validate:"required"`
}

// PaymentView is the wire shape for a payment attempt.
type PaymentView struct {
	ID                uuid.UUID           `json:"id"`
	CardOrderID       *uuid.UUID          `json:"cardOrderId,omitempty"`
	ReviewCardOrderID *uuid.UUID          `json:"reviewCardOrderId,omitempty"`
	Attempt           int                 `json:"attempt"`
	RazorpayOrderID   string              `json:"razorpayOrderId"`
	RazorpayPaymentID *string             `json:"razorpayPaymentId,omitempty"`
	AmountPaise       int64               `json:"amountPaise"`
	Status            enums.PaymentStatus `json:"status"`
	FailureReason     *string             `json:"failureReason,omitempty"`
	PaidAt            *time.Time          `json:"paidAt,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// LinkResult is the created payment plus the URL the customer pays through.
type LinkResult struct {
	Payment PaymentView `json:"payment"`
	LinkURL string      `json:"linkUrl"`
}

// NewPaymentView maps the model to its wire shape.
func NewPaymentView(payment *models.Payment) PaymentView {
	return PaymentView{
		ID:                payment.ID,
		CardOrderID:       payment.CardOrderID,
		ReviewCardOrderID: payment.ReviewCardOrderID,
		Attempt:           payment.Attempt,
		RazorpayOrderID:   payment.RazorpayOrderID,
		RazorpayPaymentID: payment.RazorpayPaymentID,
		AmountPaise:       payment.AmountPaise,
		Status:            payment.Status,
		FailureReason:     payment.FailureReason,
		PaidAt:            payment.PaidAt,
		CreatedAt:         payment.CreatedAt,
	}
}

// NewPaymentViews maps a slice of models.
func NewPaymentViews(payments []models.Payment) []PaymentView {
	out := make([]PaymentView, 0, len(payments))
	for i := range payments {
		out = append(out, NewPaymentView(&payments[i]))
	}
	return out
}
