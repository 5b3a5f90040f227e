package notifications

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(NewRepository(db), logg)
	require.NoError(t, err)
	return svc
}

func TestRecordAndListForUser(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	userID := uuid.New()
	svc.Record(ctx, Entry{
		UserID:  &userID,
		Type:    enums.NotificationLeadCaptured,
		Title:   "New lead",
		Message: "Asha connected with your card",
	})

	list, err := svc.ListForUser(ctx, userID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, enums.NotificationLeadCaptured, list.Notifications[0].Type)
	assert.Nil(t, list.Notifications[0].ReadAt)
}

func TestRecordTxCommitsWithTransaction(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	userID := uuid.New()
	tx := db.Begin()
	require.NoError(t, svc.RecordTx(ctx, tx, Entry{
		UserID:  &userID,
		Type:    enums.NotificationOrderCreated,
		Title:   "Order placed",
		Message: "Card order created",
	}))
	require.NoError(t, tx.Rollback().Error)

	list, err := svc.ListForUser(ctx, userID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
}

func TestListForUserPagination(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		n := &models.Notification{
			ID:        uuid.New(),
			UserID:    &userID,
			Type:      enums.NotificationOrderStatus,
			Title:     "Update",
			Message:   "status changed",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(n).Error)
	}

	first, err := svc.ListForUser(ctx, userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Notifications, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListForUser(ctx, userID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Notifications, 1)
	assert.Empty(t, second.NextCursor)
	assert.True(t, second.Notifications[0].CreatedAt.Before(first.Notifications[1].CreatedAt))
}

func TestMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	userID := uuid.New()
	n := &models.Notification{
		ID:      uuid.New(),
		UserID:  &userID,
		Type:    enums.NotificationEnquiry,
		Title:   "Enquiry",
		Message: "hello",
	}
	require.NoError(t, db.Create(n).Error)

	require.NoError(t, svc.MarkRead(ctx, n.ID, userID))

	var reloaded models.Notification
	require.NoError(t, db.Where("id = ?", n.ID).First(&reloaded).Error)
	assert.NotNil(t, reloaded.ReadAt)

	// already read or wrong owner both surface as not found
	err := svc.MarkRead(ctx, n.ID, userID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.MarkRead(ctx, uuid.New(), userID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
