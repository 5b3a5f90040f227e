package models

import (
	"time"

	"github.com/google/uuid"
)

// Team groups profiles under a team lead for one owning user. TeamLeadID
// must appear in Members; a profile belongs to at most one team.
type Team struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string      `gorm:"type:text;not null"`
	TeamLeadID uuid.UUID   `gorm:"column:team_lead_id;type:uuid;not null"`
	Members    []uuid.UUID `gorm:"column:members;type:jsonb;serializer:json"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
