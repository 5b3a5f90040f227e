package referral

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a referral repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateUserReferral(ctx context.Context, userID uuid.UUID, salesmanID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("referral_id", salesmanID).Error
}

func (r *repository) ListSalesmen(ctx context.Context) ([]models.User, error) {
	var salesmen []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", enums.RoleSales).
		Order("created_at ASC").
		Find(&salesmen).Error
	if err != nil {
		return nil, err
	}
	return salesmen, nil
}

func (r *repository) CountUsers(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", enums.RoleUser)
	if err := scope.ApplyToUsers(q).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountOrderedUsers(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", enums.RoleUser).
		Where("is_ordered = ?", true)
	if err := scope.ApplyToUsers(q).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountOrders(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.CardOrder{})
	if err := scope.ApplyToOwned(q, "user_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountLeads(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Connect{})
	if err := scope.ApplyToOwned(q, "user_id").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
