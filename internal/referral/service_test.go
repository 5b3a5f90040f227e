package referral

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type fakeRepo struct {
	users       map[uuid.UUID]*models.User
	assignments map[uuid.UUID]*uuid.UUID

	userCount    int64
	orderedCount int64
	orderCount   int64
	leadCount    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       map[uuid.UUID]*models.User{},
		assignments: map[uuid.UUID]*uuid.UUID{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeRepo) UpdateUserReferral(ctx context.Context, userID uuid.UUID, salesmanID *uuid.UUID) error {
	f.assignments[userID] = salesmanID
	return nil
}

func (f *fakeRepo) ListSalesmen(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == enums.RoleSales {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUsers(ctx context.Context, scope Scope) (int64, error) {
	return f.userCount, nil
}

func (f *fakeRepo) CountOrderedUsers(ctx context.Context, scope Scope) (int64, error) {
	return f.orderedCount, nil
}

func (f *fakeRepo) CountOrders(ctx context.Context, scope Scope) (int64, error) {
	return f.orderCount, nil
}

func (f *fakeRepo) CountLeads(ctx context.Context, scope Scope) (int64, error) {
	return f.leadCount, nil
}

func (f *fakeRepo) addUser(role enums.Role) *models.User {
	user := &models.User{ID: uuid.New(), Role: role, FullName: "Fake", Email: uuid.NewString() + "@x.dev"}
	f.users[user.ID] = user
	return user
}

func TestAssignSalesman(t *testing.T) {
	repo := newFakeRepo()
	tx := &fakeTxRunner{}
	svc, err := NewService(repo, tx)
	require.NoError(t, err)

	user := repo.addUser(enums.RoleUser)
	salesman := repo.addUser(enums.RoleSales)

	require.NoError(t, svc.AssignSalesman(context.Background(), user.ID, &salesman.ID))
	require.Contains(t, repo.assignments, user.ID)
	assert.Equal(t, salesman.ID, *repo.assignments[user.ID])
	assert.Equal(t, 1, tx.calls)
}

func TestAssignSalesmanDetachesToDirectLead(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	user := repo.addUser(enums.RoleUser)

	require.NoError(t, svc.AssignSalesman(context.Background(), user.ID, nil))
	require.Contains(t, repo.assignments, user.ID)
	assert.Nil(t, repo.assignments[user.ID])
}

func TestAssignSalesmanRejectsNonSalesTarget(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	user := repo.addUser(enums.RoleUser)
	notSalesman := repo.addUser(enums.RoleUser)

	err = svc.AssignSalesman(context.Background(), user.ID, &notSalesman.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.NotContains(t, repo.assignments, user.ID)
}

func TestAssignSalesmanUserNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	err = svc.AssignSalesman(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAssignSalesmanRejectsStaffReassignment(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	admin := repo.addUser(enums.RoleAdmin)
	salesman := repo.addUser(enums.RoleSales)

	err = svc.AssignSalesman(context.Background(), admin.ID, &salesman.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAssignSalesmanBulk(t *testing.T) {
	repo := newFakeRepo()
	tx := &fakeTxRunner{}
	svc, err := NewService(repo, tx)
	require.NoError(t, err)

	first := repo.addUser(enums.RoleUser)
	second := repo.addUser(enums.RoleUser)
	salesman := repo.addUser(enums.RoleSales)

	require.NoError(t, svc.AssignSalesmanBulk(context.Background(), []uuid.UUID{first.ID, second.ID}, &salesman.ID))
	assert.Equal(t, salesman.ID, *repo.assignments[first.ID])
	assert.Equal(t, salesman.ID, *repo.assignments[second.ID])
	assert.Equal(t, 1, tx.calls)
}

func TestAssignSalesmanBulkEmptyBatch(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	err = svc.AssignSalesmanBulk(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAssignSalesmanBulkFailsWholeBatchOnBadUser(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	user := repo.addUser(enums.RoleUser)
	salesman := repo.addUser(enums.RoleSales)

	err = svc.AssignSalesmanBulk(context.Background(), []uuid.UUID{user.ID, uuid.New()}, &salesman.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListSalesmenRequiresAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	repo.addUser(enums.RoleSales)

	_, err = svc.ListSalesmen(context.Background(), Actor{ID: uuid.New(), Role: "sales"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	salesmen, err := svc.ListSalesmen(context.Background(), Actor{ID: uuid.New(), Role: "admin"})
	require.NoError(t, err)
	assert.Len(t, salesmen, 1)
}

func TestStats(t *testing.T) {
	repo := newFakeRepo()
	repo.userCount = 12
	repo.orderedCount = 5
	repo.orderCount = 7
	repo.leadCount = 40

	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), Actor{ID: uuid.New(), Role: "admin"}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Users)
	assert.Equal(t, int64(5), stats.OrderedUsers)
	assert.Equal(t, int64(7), stats.Orders)
	assert.Equal(t, int64(40), stats.Leads)
}

func TestStatsDeniedForUserRole(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, &fakeTxRunner{})
	require.NoError(t, err)

	_, err = svc.Stats(context.Background(), Actor{ID: uuid.New(), Role: "user"}, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
