package cards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

func setupCardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:cards_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS cards (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  front_image TEXT NOT NULL,
  back_image TEXT,
  price_paise INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func testCardsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestCreateAndGetCard(t *testing.T) {
	db := setupCardsTestDB(t)
	svc := testCardsService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCardInput{
		Name:       "Matte Black",
		Category:   "premium",
		FrontImage: "https://cdn.example.com/front.png",
		PricePaise: 149900,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.BackImage)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matte Black", got.Name)
	assert.Equal(t, int64(149900), got.PricePaise)
}

func TestCreatePersistsInactiveFlag(t *testing.T) {
	db := setupCardsTestDB(t)
	ctx := context.Background()

	card, err := NewRepository(db).Create(ctx, &models.Card{
		Name:       "Retired",
		Category:   "classic",
		FrontImage: "https://cdn.example.com/retired.png",
		PricePaise: 99900,
		IsActive:   false,
	})
	require.NoError(t, err)

	var stored models.Card
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestGetCardNotFound(t *testing.T) {
	db := setupCardsTestDB(t)
	svc := testCardsService(t, db)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateCardPartial(t *testing.T) {
	db := setupCardsTestDB(t)
	svc := testCardsService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCardInput{
		Name:       "Classic White",
		Category:   "standard",
		FrontImage: "https://cdn.example.com/white.png",
		PricePaise: 99900,
	})
	require.NoError(t, err)

	newPrice := int64(89900)
	updated, err := svc.Update(ctx, created.ID, UpdateCardInput{PricePaise: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(89900), updated.PricePaise)
	assert.Equal(t, "Classic White", updated.Name)
}

func TestDeactivatedCardLeavesActiveList(t *testing.T) {
	db := setupCardsTestDB(t)
	svc := testCardsService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCardInput{
		Name:       "Retired Design",
		Category:   "standard",
		FrontImage: "https://cdn.example.com/retired.png",
		PricePaise: 49900,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, created.ID, false))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	for _, c := range active {
		assert.NotEqual(t, created.ID, c.ID)
	}

	err = svc.SetActive(ctx, uuid.New(), false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
