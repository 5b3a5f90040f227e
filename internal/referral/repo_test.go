package referral

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
)

func setupReferralTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:referral_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT,
  full_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  account_type TEXT NOT NULL DEFAULT 'personal',
  referral_id TEXT,
  referral_code TEXT,
  plan_id TEXT,
  is_ordered INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	cardOrders := `
CREATE TABLE IF NOT EXISTS card_orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  card_id TEXT NOT NULL,
  profile_id TEXT,
  full_name TEXT NOT NULL,
  designation TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  logo_image TEXT,
  delivery_address TEXT,
  total_amount_paise INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	connects := `
CREATE TABLE IF NOT EXISTS connects (
  id TEXT PRIMARY KEY,
  profile_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT,
  company_name TEXT,
  designation TEXT,
  lead_label TEXT NOT NULL DEFAULT 'New',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(cardOrders).Error)
	require.NoError(t, db.Exec(connects).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, role enums.Role, referralID *uuid.UUID, ordered bool) *models.User {
	t.Helper()

	user := &models.User{
		ID:         uuid.New(),
		Email:      uuid.NewString() + "@example.com",
		FullName:   "Test User",
		Role:       role,
		ReferralID: referralID,
		IsOrdered:  ordered,
		IsActive:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newOrder(t *testing.T, db *gorm.DB, owner *models.User) *models.CardOrder {
	t.Helper()

	order := &models.CardOrder{
		ID:          uuid.New(),
		UserID:      owner.ID,
		CardID:      uuid.New(),
		FullName:    owner.FullName,
		Designation: "Engineer",
		Phone:       "919900112233",
		Email:       owner.Email,
		Quantity:    1,
		Status:      enums.OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCountOrders_salesScope(t *testing.T) {
	db := setupReferralTestDB(t)
	repo := NewRepository(db)

	salesman := newUser(t, db, enums.RoleSales, nil, false)
	downlineA := newUser(t, db, enums.RoleUser, &salesman.ID, true)
	downlineB := newUser(t, db, enums.RoleUser, &salesman.ID, false)
	unrelated := newUser(t, db, enums.RoleUser, nil, true)

	newOrder(t, db, downlineA)
	newOrder(t, db, downlineB)
	unrelatedOrder := newOrder(t, db, unrelated)

	scope, err := Resolve(Actor{ID: salesman.ID, Role: "sales"}, "")
	require.NoError(t, err)

	count, err := repo.CountOrders(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// the unrelated owner's order is invisible to the salesman
	var scoped []models.CardOrder
	require.NoError(t, scope.ApplyToOwned(db.Model(&models.CardOrder{}), "user_id").Find(&scoped).Error)
	for _, order := range scoped {
		assert.NotEqual(t, unrelatedOrder.ID, order.ID)
	}
}

func TestRepositoryCountUsers_directLeadScope(t *testing.T) {
	db := setupReferralTestDB(t)
	repo := NewRepository(db)

	salesman := newUser(t, db, enums.RoleSales, nil, false)
	newUser(t, db, enums.RoleUser, &salesman.ID, false)
	direct := newUser(t, db, enums.RoleUser, nil, false)

	scope, err := Resolve(Actor{ID: uuid.New(), Role: "admin"}, SelectorDirectLead)
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, scope.ApplyToUsers(db.Model(&models.User{}).Where("role = ?", enums.RoleUser)).Find(&users).Error)

	found := false
	for _, u := range users {
		require.Nil(t, u.ReferralID)
		if u.ID == direct.ID {
			found = true
		}
	}
	assert.True(t, found)

	count, err := repo.CountUsers(context.Background(), scope)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(1))
}

func TestRepositoryCountOrderedUsers(t *testing.T) {
	db := setupReferralTestDB(t)
	repo := NewRepository(db)

	salesman := newUser(t, db, enums.RoleSales, nil, false)
	newUser(t, db, enums.RoleUser, &salesman.ID, true)
	newUser(t, db, enums.RoleUser, &salesman.ID, false)

	scope, err := Resolve(Actor{ID: salesman.ID, Role: "sales"}, "")
	require.NoError(t, err)

	total, err := repo.CountUsers(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	ordered, err := repo.CountOrderedUsers(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ordered)
}

func TestRepositoryListSalesmen(t *testing.T) {
	db := setupReferralTestDB(t)
	repo := NewRepository(db)

	sm := newUser(t, db, enums.RoleSales, nil, false)
	newUser(t, db, enums.RoleUser, nil, false)

	salesmen, err := repo.ListSalesmen(context.Background())
	require.NoError(t, err)

	found := false
	for _, s := range salesmen {
		assert.Equal(t, enums.RoleSales, s.Role)
		if s.ID == sm.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRepositoryUpdateUserReferral(t *testing.T) {
	db := setupReferralTestDB(t)
	repo := NewRepository(db)

	salesman := newUser(t, db, enums.RoleSales, nil, false)
	user := newUser(t, db, enums.RoleUser, nil, false)

	require.NoError(t, repo.UpdateUserReferral(context.Background(), user.ID, &salesman.ID))

	reloaded, err := repo.FindUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ReferralID)
	assert.Equal(t, salesman.ID, *reloaded.ReferralID)

	require.NoError(t, repo.UpdateUserReferral(context.Background(), user.ID, nil))
	reloaded, err = repo.FindUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ReferralID)
}
