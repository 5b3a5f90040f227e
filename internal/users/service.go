package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/auth"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
	"github.com/taptune/taptune-backend/pkg/security"
)

// Service defines identity operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	CreateStaff(ctx context.Context, actor referral.Actor, input CreateStaffInput) (*UserView, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo   Repository
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// NewService builds the users service with the required dependencies.
func NewService(repo Repository, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, now: time.Now}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	accountType, err := enums.ParseAccountType(input.AccountType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account type")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: &hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         enums.RoleUser,
		AccountType:  accountType,
		IsActive:     true,
	}
	if input.Phone != "" {
		phone := input.Phone
		user.Phone = &phone
	}

	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		salesman, err := s.repo.FindByReferralCode(ctx, code)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown referral code")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve referral code")
		}
		user.ReferralID = &salesman.ID
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email", "users.email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.issueToken(created)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}
	if user.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(*user.PasswordHash, input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}

	return s.issueToken(user)
}

// CreateStaff provisions a sales or admin account. Role casing from the
// request is normalized before the write so stored roles are always
// canonical.
func (s *service) CreateStaff(ctx context.Context, actor referral.Actor, input CreateStaffInput) (*UserView, error) {
	actorRole, err := enums.ParseRole(actor.Role)
	if err != nil || actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}

	role, err := enums.ParseRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if role == enums.RoleUser {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff role must be sales or admin")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: &hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		AccountType:  enums.AccountTypeBusiness,
		IsActive:     true,
	}

	if role == enums.RoleSales {
		code := strings.TrimSpace(input.ReferralCode)
		if code == "" {
			code = newReferralCode()
		}
		user.ReferralCode = &code
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email", "users.email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		if db.IsUniqueViolation(err, "idx_users_referral_code", "users.referral_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "referral code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff user")
	}

	view := NewUserView(created)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error) {
	scope, err := referral.Resolve(actor, selector)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, scope, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return list, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) issueToken(user *models.User) (*AuthResult, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResult{Token: token, User: NewUserView(user)}, nil
}

func newReferralCode() string {
	return "REF-" + strings.ToUpper(uuid.NewString()[:8])
}
