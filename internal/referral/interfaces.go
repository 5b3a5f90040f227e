package referral

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// Repository defines the persistence surface for referral attribution.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserReferral(ctx context.Context, userID uuid.UUID, salesmanID *uuid.UUID) error
	ListSalesmen(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context, scope Scope) (int64, error)
	CountOrderedUsers(ctx context.Context, scope Scope) (int64, error)
	CountOrders(ctx context.Context, scope Scope) (int64, error)
	CountLeads(ctx context.Context, scope Scope) (int64, error)
}
