package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/enums"
)

// ReviewCardOrder is a custom-design order that goes through a design review
// cycle before printing. It provisions no profile.
type ReviewCardOrder struct {
	ID               uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	FullName         string                  `gorm:"column:full_name;not null"`
	Phone            string                  `gorm:"column:phone;not null"`
	Email            string                  `gorm:"column:email;not null"`
	CardDesignURL    *string                 `gorm:"column:card_design_url"`
	Quantity         int                     `gorm:"column:quantity;not null"`
	Status           enums.ReviewOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	DeliveryAddress  *string                 `gorm:"column:delivery_address"`
	TotalAmountPaise *int64                  `gorm:"column:total_amount_paise"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
