package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/enums"
)

// CardOrder records one ordering event. Contact fields are snapshotted at
// order time and are not affected by later profile edits.
type CardOrder struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	CardID           uuid.UUID         `gorm:"column:card_id;type:uuid;not null"`
	ProfileID        *uuid.UUID        `gorm:"column:profile_id;type:uuid"`
	FullName         string            `gorm:"column:full_name;not null"`
	Designation      string            `gorm:"column:designation;not null"`
	Phone            string            `gorm:"column:phone;not null"`
	Email            string            `gorm:"column:email;not null"`
	Quantity         int               `gorm:"column:quantity;not null"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	LogoImage        *string           `gorm:"column:logo_image"`
	DeliveryAddress  *string           `gorm:"column:delivery_address"`
	TotalAmountPaise *int64            `gorm:"column:total_amount_paise"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
