package connects

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a connect repository over the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, connect *models.Connect) (*models.Connect, error) {
	if connect.ID == uuid.Nil {
		connect.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(connect).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create connect")
	}
	return connect, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Connect, error) {
	var connect models.Connect
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&connect).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "connect not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find connect")
	}
	return &connect, nil
}

func (r *repository) ListForProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (*List, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("profile_id = ?", profileID)
	})
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *repository) List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return scope.ApplyToOwned(q, "user_id")
	})
}

func (r *repository) list(ctx context.Context, params pagination.Params, filter func(*gorm.DB) *gorm.DB) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := filter(r.db.WithContext(ctx).Model(&models.Connect{}))
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Connect
	if err := q.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list connects")
	}

	list := &List{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	list.Connects = rows
	return list, nil
}

func (r *repository) UpdateLabel(ctx context.Context, id uuid.UUID, label string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Connect{}).
		Where("id = ?", id).
		Update("lead_label", label)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "update lead label")
	}
	return res.RowsAffected, nil
}
