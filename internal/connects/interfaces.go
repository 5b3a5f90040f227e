package connects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence over captured leads. UserID is written at
// capture time only; ownership transfer rewrites it elsewhere.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, connect *models.Connect) (*models.Connect, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Connect, error)
	ListForProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (*List, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) (int64, error)
}

// List is one page of connects plus the cursor for the next page.
type List struct {
	Connects   []models.Connect
	NextCursor string
}
