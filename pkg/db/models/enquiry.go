package models

import (
	"time"

	"github.com/google/uuid"
)

// Enquiry is a public contact-form submission.
type Enquiry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"type:text;not null"`
	Phone     *string   `gorm:"column:phone"`
	Message   string    `gorm:"type:text;not null"`
	Resolved  bool      `gorm:"column:resolved;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
