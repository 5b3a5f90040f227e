package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence over card orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.CardOrder) (*models.CardOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CardOrder, error)
	List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CardOrder, error)
	LinkProfile(ctx context.Context, orderID, profileID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// List is one page of orders plus the cursor for the next page.
type List struct {
	Orders     []models.CardOrder
	NextCursor string
}
