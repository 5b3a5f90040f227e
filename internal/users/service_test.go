package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/auth"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
	"github.com/taptune/taptune-backend/pkg/security"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:users_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
  updated_at DATETIME,
  CONSTRAINT idx_users_email UNIQUE (email)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func testUsersService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "taptune-test",
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)
	return svc
}

func seedSalesman(t *testing.T, db *gorm.DB, code string) *models.User {
	t.Helper()
	hash, err := security.HashPassword("salesman-pass")
	require.NoError(t, err)
	salesman := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@sales.dev",
		PasswordHash: &hash,
		FullName:     "Salesman",
		Role:         enums.RoleSales,
		AccountType:  enums.AccountTypeBusiness,
		ReferralCode: &code,
		IsActive:     true,
	}
	require.NoError(t, db.Create(salesman).Error)
	return salesman
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	result, err := svc.Register(ctx, RegisterInput{
		FullName: "Asha Rao",
		Email:    email,
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, enums.RoleUser, result.User.Role)
	assert.Equal(t, "personal", result.User.AccountType)
	assert.False(t, result.User.IsOrdered)

	claims, err := auth.ParseAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "taptune-test", ExpirationMinutes: 15}, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)

	login, err := svc.Login(ctx, LoginInput{Email: email, Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRegisterWithReferralCode(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	salesman := seedSalesman(t, db, "REF-"+uuid.NewString()[:8])

	result, err := svc.Register(ctx, RegisterInput{
		FullName:     "Referred User",
		Email:        uuid.NewString() + "@example.com",
		Password:     "long-enough-pass",
		ReferralCode: *salesman.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.ReferralID)
	assert.Equal(t, salesman.ID, *result.User.ReferralID)
}

func TestRegisterRejectsUnknownReferralCode(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName:     "User",
		Email:        uuid.NewString() + "@example.com",
		Password:     "long-enough-pass",
		ReferralCode: "REF-DOESNOTEXIST",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	_, err := svc.Register(ctx, RegisterInput{FullName: "One", Email: email, Password: "long-enough-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{FullName: "Two", Email: email, Password: "long-enough-pass"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreatePersistsInactiveAccount(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	hash, err := security.HashPassword("disabled-pass")
	require.NoError(t, err)
	created, err := NewRepository(db).Create(ctx, &models.User{
		Email:        "disabled@example.com",
		PasswordHash: &hash,
		FullName:     "Disabled User",
		Role:         enums.RoleUser,
		AccountType:  enums.AccountTypePersonal,
		IsActive:     false,
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)

	_, err = svc.Login(ctx, LoginInput{Email: "disabled@example.com", Password: "disabled-pass"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateStaffNormalizesRoleCasing(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	admin := referral.Actor{ID: uuid.New(), Role: "Admin"}
	view, err := svc.CreateStaff(ctx, admin, CreateStaffInput{
		FullName: "New Salesman",
		Email:    uuid.NewString() + "@sales.dev",
		Password: "long-enough-pass",
		Role:     "Sales",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleSales, view.Role)
	require.NotNil(t, view.ReferralCode)
	assert.NotEmpty(t, *view.ReferralCode)

	var stored models.User
	require.NoError(t, db.Where("id = ?", view.ID).First(&stored).Error)
	assert.Equal(t, enums.RoleSales, stored.Role)
}

func TestCreateStaffDeniedForNonAdmin(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)

	_, err := svc.CreateStaff(context.Background(), referral.Actor{ID: uuid.New(), Role: "sales"}, CreateStaffInput{
		FullName: "X",
		Email:    uuid.NewString() + "@x.dev",
		Password: "long-enough-pass",
		Role:     "sales",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateStaffRejectsUserRole(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)

	_, err := svc.CreateStaff(context.Background(), referral.Actor{ID: uuid.New(), Role: "admin"}, CreateStaffInput{
		FullName: "X",
		Email:    uuid.NewString() + "@x.dev",
		Password: "long-enough-pass",
		Role:     "user",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListScopedToSalesDownline(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	salesman := seedSalesman(t, db, "REF-"+uuid.NewString()[:8])

	downline, err := svc.Register(ctx, RegisterInput{
		FullName:     "Downline",
		Email:        uuid.NewString() + "@example.com",
		Password:     "long-enough-pass",
		ReferralCode: *salesman.ReferralCode,
	})
	require.NoError(t, err)

	outsider, err := svc.Register(ctx, RegisterInput{
		FullName: "Outsider",
		Email:    uuid.NewString() + "@example.com",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, referral.Actor{ID: salesman.ID, Role: "sales"}, "", pagination.Params{Limit: 50})
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool)
	for _, u := range list.Users {
		ids[u.ID] = true
	}
	assert.True(t, ids[downline.User.ID])
	assert.False(t, ids[outsider.User.ID])
}

func TestMarkOrderedIdempotent(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		FullName: "Orderer",
		Role:     enums.RoleUser,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, repo.MarkOrdered(ctx, user.ID))
	require.NoError(t, repo.MarkOrdered(ctx, user.ID))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsOrdered)
}

func TestSetActive(t *testing.T) {
	db := setupUsersTestDB(t)
	svc := testUsersService(t, db)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		FullName: "Disabled Soon",
		Email:    uuid.NewString() + "@example.com",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, result.User.ID, false))

	_, err = svc.Login(ctx, LoginInput{Email: result.User.Email, Password: "long-enough-pass"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	err = svc.SetActive(ctx, uuid.New(), false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
