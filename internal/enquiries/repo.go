package enquiries

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an enquiry repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error) {
	if enquiry.ID == uuid.Nil {
		enquiry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(enquiry).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create enquiry")
	}
	return enquiry, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&enquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find enquiry")
	}
	return &enquiry, nil
}

func (r *repository) List(ctx context.Context, unresolvedOnly bool, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Enquiry{})
	if unresolvedOnly {
		q = q.Where("resolved = ?", false)
	}
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Enquiry
	if err := q.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list enquiries")
	}

	list := &List{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	list.Enquiries = rows
	return list, nil
}

func (r *repository) MarkResolved(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("id = ? AND resolved = ?", id, false).
		Update("resolved", true)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "resolve enquiry")
	}
	return res.RowsAffected, nil
}
