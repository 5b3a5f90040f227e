package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/enums"
)

// User represents the canonical identity entity. Sales users carry a referral
// code; ordinary users may carry a ReferralID pointing at the salesman who
// signed them up.
type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash *string           `gorm:"column:password_hash"`
	FullName     string            `gorm:"column:full_name;not null"`
	Phone        *string           `gorm:"column:phone"`
	Role         enums.Role        `gorm:"column:role;type:text;not null;default:'user'"`
	AccountType  enums.AccountType `gorm:"column:account_type;type:text;not null;default:'personal'"`
	ReferralID   *uuid.UUID        `gorm:"column:referral_id;type:uuid"`
	ReferralCode *string           `gorm:"column:referral_code;uniqueIndex"`
	PlanID       *uuid.UUID        `gorm:"column:plan_id;type:uuid"`
	IsOrdered    bool              `gorm:"column:is_ordered;not null;default:false"`
	IsActive     bool              `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
