package teams

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a team repository over the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create team")
	}
	return team, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find team")
	}
	return &team, nil
}

func (r *repository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	var rows []models.Team
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list teams")
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Save(team).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update team")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Team{})
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete team")
	}
	return res.RowsAffected, nil
}

func (r *repository) CreatePlan(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create plan")
	}
	return plan, nil
}

func (r *repository) FindPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find plan")
	}
	return &plan, nil
}

func (r *repository) ListPlans(ctx context.Context, activeOnly bool) ([]models.Plan, error) {
	q := r.db.WithContext(ctx).Model(&models.Plan{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Plan
	if err := q.Order("price_paise ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list plans")
	}
	return rows, nil
}

func (r *repository) SetPlanActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Plan{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "set plan active")
	}
	return res.RowsAffected, nil
}
