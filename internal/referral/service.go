package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes referral attribution operations for staff surfaces.
type Service interface {
	ResolveScope(ctx context.Context, actor Actor, selector string) (Scope, error)
	AssignSalesman(ctx context.Context, userID uuid.UUID, salesmanID *uuid.UUID) error
	AssignSalesmanBulk(ctx context.Context, userIDs []uuid.UUID, salesmanID *uuid.UUID) error
	ListSalesmen(ctx context.Context, actor Actor) ([]models.User, error)
	Stats(ctx context.Context, actor Actor, selector string) (*Stats, error)
}

// Stats aggregates the downline counters shown on staff dashboards.
type Stats struct {
	Users        int64 `json:"users"`
	OrderedUsers int64 `json:"orderedUsers"`
	Orders       int64 `json:"orders"`
	Leads        int64 `json:"leads"`
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the referral service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referral repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ResolveScope(ctx context.Context, actor Actor, selector string) (Scope, error) {
	return Resolve(actor, selector)
}

// AssignSalesman rewrites a user's referral attribution. A nil salesmanID
// detaches the user into the direct-lead pool.
func (s *service) AssignSalesman(ctx context.Context, userID uuid.UUID, salesmanID *uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user.Role != enums.RoleUser {
			return pkgerrors.New(pkgerrors.CodeValidation, "only user-role accounts can be attributed to a salesman")
		}

		if salesmanID != nil {
			salesman, err := repo.FindUser(ctx, *salesmanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "salesman not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salesman")
			}
			if salesman.Role != enums.RoleSales {
				return pkgerrors.New(pkgerrors.CodeValidation, "referral target must be a sales account")
			}
		}

		if err := repo.UpdateUserReferral(ctx, userID, salesmanID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update referral attribution")
		}
		return nil
	})
}

// AssignSalesmanBulk rewrites attribution for a batch of users in one
// transaction. Any invalid user fails the whole batch.
func (s *service) AssignSalesmanBulk(ctx context.Context, userIDs []uuid.UUID, salesmanID *uuid.UUID) error {
	if len(userIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one user id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if salesmanID != nil {
			salesman, err := repo.FindUser(ctx, *salesmanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "salesman not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salesman")
			}
			if salesman.Role != enums.RoleSales {
				return pkgerrors.New(pkgerrors.CodeValidation, "referral target must be a sales account")
			}
		}

		for _, userID := range userIDs {
			user, err := repo.FindUser(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "user "+userID.String()+" not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
			}
			if user.Role != enums.RoleUser {
				return pkgerrors.New(pkgerrors.CodeValidation, "only user-role accounts can be attributed to a salesman")
			}
			if err := repo.UpdateUserReferral(ctx, userID, salesmanID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update referral attribution")
			}
		}
		return nil
	})
}

func (s *service) ListSalesmen(ctx context.Context, actor Actor) ([]models.User, error) {
	role, err := enums.ParseRole(actor.Role)
	if err != nil || role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}

	salesmen, err := s.repo.ListSalesmen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salesmen")
	}
	return salesmen, nil
}

func (s *service) Stats(ctx context.Context, actor Actor, selector string) (*Stats, error) {
	scope, err := Resolve(actor, selector)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	if stats.Users, err = s.repo.CountUsers(ctx, scope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if stats.OrderedUsers, err = s.repo.CountOrderedUsers(ctx, scope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count ordered users")
	}
	if stats.Orders, err = s.repo.CountOrders(ctx, scope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if stats.Leads, err = s.repo.CountLeads(ctx, scope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count leads")
	}
	return stats, nil
}
