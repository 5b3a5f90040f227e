package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/enums"
)

// Payment is one payment attempt against a card order or a review card
// order, never both. The (razorpay_order_id, attempt) pair is unique.
type Payment struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CardOrderID       *uuid.UUID          `gorm:"column:card_order_id;type:uuid;index"`
	ReviewCardOrderID *uuid.UUID          `gorm:"column:review_card_order_id;type:uuid"`
	IsReviewCard      bool                `gorm:"column:is_review_card;not null;default:false"`
	Attempt           int                 `gorm:"column:attempt;not null;uniqueIndex:idx_payments_razorpay_order_attempt"`
	RazorpayOrderID   string              `gorm:"column:razorpay_order_id;not null;uniqueIndex:idx_payments_razorpay_order_attempt"`
	RazorpayPaymentID *string             `gorm:"column:razorpay_payment_id"`
	RazorpayLinkID    *string             `gorm:"column:razorpay_link_id"`
	AmountPaise       int64               `gorm:"column:amount_paise;not null"`
	Status            enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	FailureReason     *string             `gorm:"column:failure_reason"`
	PaidAt            *time.Time          `gorm:"column:paid_at"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
