package models

import (
	"time"

	"github.com/google/uuid"
)

// Connect is a lead captured against a profile. UserID duplicates the
// profile owner for fast filtering; only the ownership transfer flow may
// rewrite it.
type Connect struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID   uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FullName    string    `gorm:"column:full_name;not null"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	Email       *string   `gorm:"column:email"`
	CompanyName *string   `gorm:"column:company_name"`
	Designation *string   `gorm:"column:designation"`
	LeadLabel   string    `gorm:"column:lead_label;not null;default:'New'"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
