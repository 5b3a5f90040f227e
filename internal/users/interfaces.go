package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence operations over the users table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	List(ctx context.Context, scope referral.Scope, params pagination.Params) (*List, error)
	MarkOrdered(ctx context.Context, id uuid.UUID) error
	SetPlan(ctx context.Context, id uuid.UUID, planID *uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error)
}

// List is one page of users plus the cursor for the next page.
type List struct {
	Users      []models.User
	NextCursor string
}
