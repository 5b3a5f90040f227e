package cards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// Repository defines persistence operations over the card catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListActive(ctx context.Context) ([]models.Card, error)
	ListAll(ctx context.Context) ([]models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
}
