package enquiries

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

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

func setupEnquiriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:enquiries_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS enquiries (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  message TEXT NOT NULL,
  resolved INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);
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

func testEnquiriesService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	notifier, err := notifications.NewService(notifications.NewRepository(db), logg)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(db), notifier)
	require.NoError(t, err)
	return svc
}

func TestCreateEnquiryRecordsStaffNotification(t *testing.T) {
	db := setupEnquiriesTestDB(t)
	svc := testEnquiriesService(t, db)
	ctx := context.Background()

	phone := "+919811112222"
	view, err := svc.Create(ctx, CreateInput{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    &phone,
		Message:  "Do you ship metal cards to Pune?",
	})
	require.NoError(t, err)
	assert.False(t, view.Resolved)
	require.NotNil(t, view.Phone)
	assert.Equal(t, phone, *view.Phone)

	var note models.Notification
	require.NoError(t, db.Where("type = ? AND message LIKE ?", enums.NotificationEnquiry, "%asha@example.com%").First(&note).Error)
	assert.Nil(t, note.UserID)
}

func TestResolveEnquiryOnce(t *testing.T) {
	db := setupEnquiriesTestDB(t)
	svc := testEnquiriesService(t, db)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		FullName: "Kunal Shah",
		Email:    "kunal@example.com",
		Message:  "Bulk pricing for 200 cards?",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(ctx, view.ID))

	err = svc.Resolve(ctx, view.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	err = svc.Resolve(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListUnresolvedFilters(t *testing.T) {
	db := setupEnquiriesTestDB(t)
	svc := testEnquiriesService(t, db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seeded := make(map[uuid.UUID]bool, 3)
	var resolvedID uuid.UUID
	for i := 0; i < 3; i++ {
		e := &models.Enquiry{
			ID:        uuid.New(),
			FullName:  "Visitor",
			Email:     uuid.NewString() + "@example.com",
			Message:   "hello",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(e).Error)
		seeded[e.ID] = true
		if i == 0 {
			resolvedID = e.ID
		}
	}
	require.NoError(t, svc.Resolve(ctx, resolvedID))

	open, err := svc.List(ctx, true, pagination.Params{Limit: 50})
	require.NoError(t, err)

	openSeeded := 0
	for _, e := range open.Enquiries {
		assert.False(t, e.Resolved)
		assert.NotEqual(t, resolvedID, e.ID)
		if seeded[e.ID] {
			openSeeded++
		}
	}
	assert.Equal(t, 2, openSeeded)
}
