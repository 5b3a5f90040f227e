package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence over profiles plus the cross-table writes
// the ownership transfer needs. Reassigning orders and connects lives here
// because the transfer invariant is anchored on the profile.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByViewID(ctx context.Context, viewID string) (*models.Profile, error)
	ViewIDExists(ctx context.Context, viewID string) (bool, error)
	List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	UpdateOwner(ctx context.Context, profileID, userID uuid.UUID) error
	UpdateOrderOwner(ctx context.Context, orderID, userID uuid.UUID) error
	UpdateConnectOwners(ctx context.Context, profileID, userID uuid.UUID) (int64, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.CardOrder, error)
}

// List is one page of profiles plus the cursor for the next page.
type List struct {
	Profiles   []models.Profile
	NextCursor string
}
