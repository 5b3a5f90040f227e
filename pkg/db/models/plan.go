package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a subscription tier controlling team size.
type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	TeamLimit    int       `gorm:"column:team_limit;not null"`
	PricePaise   int64     `gorm:"column:price_paise;not null"`
	DurationDays int       `gorm:"column:duration_days;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
