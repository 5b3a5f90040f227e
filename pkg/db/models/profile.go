package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public card page provisioned by an order. ViewID is the
// public lookup key and never changes once assigned; UserID is mutated only
// by the ownership transfer flow.
type Profile struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ViewID         string     `gorm:"column:view_id;not null;uniqueIndex:idx_profiles_view_id"`
	CardOrderID    *uuid.UUID `gorm:"column:card_order_id;type:uuid"`
	FullName       string     `gorm:"column:full_name;not null"`
	Designation    string     `gorm:"column:designation;not null"`
	Phone          string     `gorm:"column:phone;not null"`
	Email          string     `gorm:"column:email;not null"`
	CompanyName    *string    `gorm:"column:company_name"`
	Bio            *string    `gorm:"column:bio"`
	Website        *string    `gorm:"column:website"`
	LogoImage      *string    `gorm:"column:logo_image"`
	Linkedin       *string    `gorm:"column:linkedin"`
	Instagram      *string    `gorm:"column:instagram"`
	Twitter        *string    `gorm:"column:twitter"`
	IsActive       bool       `gorm:"column:is_active;not null;default:false"`
	IsAdminCreated bool       `gorm:"column:is_admin_created;not null;default:false"`
	ViewCount      int64      `gorm:"column:view_count;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
