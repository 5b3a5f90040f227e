package reviewcards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence over review card orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.ReviewCardOrder) (*models.ReviewCardOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReviewCardOrder, error)
	List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.ReviewCardOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReviewOrderStatus) error
	SetDesignURL(ctx context.Context, id uuid.UUID, url string) error
}

// List is one page of review orders plus the cursor for the next page.
type List struct {
	Orders     []models.ReviewCardOrder
	NextCursor string
}
