package cards

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

// NewRepository builds a card repository over the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create card")
	}
	return card, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find card")
	}
	return &card, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.Card, error) {
	var out []models.Card
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active cards")
	}
	return out, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Card, error) {
	var out []models.Card
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cards")
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Save(card).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update card")
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "set card active")
	}
	return res.RowsAffected, nil
}
