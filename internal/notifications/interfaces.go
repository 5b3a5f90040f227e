package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence operations for the activity feed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	ListStaffFeed(ctx context.Context, params pagination.Params) (*List, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

// List is one page of notifications plus the cursor for the next page.
type List struct {
	Notifications []models.Notification
	NextCursor    string
}
