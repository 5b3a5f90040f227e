package teams

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// Repository defines persistence over teams and the plan catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, team *models.Team) (*models.Team, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)

	CreatePlan(ctx context.Context, plan *models.Plan) (*models.Plan, error)
	FindPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]models.Plan, error)
	SetPlanActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
}
