package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is a purchasable card template. Reference data managed by admins.
type Card struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"type:text;not null"`
	Category   string    `gorm:"type:text;not null"`
	FrontImage string    `gorm:"column:front_image;not null"`
	BackImage  *string   `gorm:"column:back_image"`
	PricePaise int64     `gorm:"column:price_paise;not null"`
	IsActive   bool      `gorm:"column:is_active;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
