package profiles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/pagination"
	"github.com/taptune/taptune-backend/pkg/viewid"
)

// Service exposes profile operations, including the ownership transfer
// that keeps orders and connects pointing at the current owner.
type Service interface {
	CreateAdmin(ctx context.Context, input CreateProfileInput) (*ProfileView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProfileView, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]ProfileView, error)
	List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input UpdateProfileInput) (*ProfileView, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	PublicView(ctx context.Context, viewID string, viewer Viewer) (*PublicProfileView, error)
	Transfer(ctx context.Context, input TransferInput) (*ProfileView, error)
}

// Viewer identifies an optionally authenticated visitor on the public
// surface. The zero value is an anonymous visitor.
type Viewer struct {
	ID   uuid.UUID
	Role enums.Role
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	users    users.Repository
	tx       txRunner
	notifier notifications.Recorder
	logg     *logger.Logger
}

// NewService builds the profile service.
func NewService(repo Repository, userRepo users.Repository, tx txRunner, notifier notifications.Recorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles: repository is required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles: user repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles: transaction runner is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles: notifier is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profiles: logger is required")
	}
	return &service{repo: repo, users: userRepo, tx: tx, notifier: notifier, logg: logg}, nil
}

// CreateAdmin provisions a profile directly for an existing user, outside
// the order flow. The view id is seeded from the profile's own id.
func (s *service) CreateAdmin(ctx context.Context, input CreateProfileInput) (*ProfileView, error) {
	owner, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	profileID := uuid.New()
	generated, err := viewid.GenerateUnique(ctx, profileID, s.repo.ViewIDExists)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:             profileID,
		UserID:         owner.ID,
		ViewID:         generated,
		FullName:       input.FullName,
		Designation:    input.Designation,
		Phone:          input.Phone,
		Email:          input.Email,
		IsActive:       true,
		IsAdminCreated: true,
	}
	applyOptional(profile, input)

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	view := NewProfileView(created)
	return &view, nil
}

func applyOptional(profile *models.Profile, input CreateProfileInput) {
	if input.CompanyName != "" {
		profile.CompanyName = &input.CompanyName
	}
	if input.Bio != "" {
		profile.Bio = &input.Bio
	}
	if input.Website != "" {
		profile.Website = &input.Website
	}
	if input.LogoImage != "" {
		profile.LogoImage = &input.LogoImage
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProfileView, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewProfileView(profile)
	return &view, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]ProfileView, error) {
	list, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewProfileViews(list), nil
}

func (s *service) List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error) {
	scope, err := referral.Resolve(actor, selector)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, params)
}

// Update applies owner edits. Staff pass uuid.Nil as actorID and skip the
// ownership check. The view id and owner are never editable here.
func (s *service) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input UpdateProfileInput) (*ProfileView, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil && profile.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "profile belongs to another user")
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Designation != nil {
		profile.Designation = *input.Designation
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.CompanyName != nil {
		profile.CompanyName = input.CompanyName
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.Website != nil {
		profile.Website = input.Website
	}
	if input.LogoImage != nil {
		profile.LogoImage = input.LogoImage
	}
	if input.Linkedin != nil {
		profile.Linkedin = input.Linkedin
	}
	if input.Instagram != nil {
		profile.Instagram = input.Instagram
	}
	if input.Twitter != nil {
		profile.Twitter = input.Twitter
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	view := NewProfileView(profile)
	return &view, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return nil
}

// PublicView resolves a profile by its public view id. Inactive profiles
// are withheld and the owner is reduced to name, email and role. The view
// counter only moves for genuine visitors, the owner and admins browsing
// their own inventory do not inflate it.
func (s *service) PublicView(ctx context.Context, viewID string, viewer Viewer) (*PublicProfileView, error) {
	profile, err := s.repo.FindByViewID(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "profile is not active")
	}
	owner, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	if viewer.ID != profile.UserID && viewer.Role != enums.RoleAdmin {
		if err := s.repo.IncrementViewCount(ctx, profile.ID); err != nil {
			s.logg.Error(ctx, "view count increment failed", err)
		}
	}

	view := NewPublicProfileView(profile, owner)
	return &view, nil
}

// Transfer moves a profile, its card order and every captured connect to a
// new owner in one transaction. The view id is never rewritten.
func (s *service) Transfer(ctx context.Context, input TransferInput) (*ProfileView, error) {
	target, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.FindByID(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile.CardOrderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "profile has no linked card order")
	}
	order, err := s.repo.FindOrder(ctx, *profile.CardOrderID)
	if err != nil {
		return nil, err
	}

	var moved int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateOrderOwner(ctx, order.ID, target.ID); err != nil {
			return err
		}
		if err := txRepo.UpdateOwner(ctx, profile.ID, target.ID); err != nil {
			return err
		}
		n, err := txRepo.UpdateConnectOwners(ctx, profile.ID, target.ID)
		if err != nil {
			return err
		}
		moved = n
		return s.users.WithTx(tx).MarkOrdered(ctx, target.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Record(ctx, notifications.Entry{
		UserID:  &target.ID,
		Type:    enums.NotificationProfileTransfer,
		Title:   "Profile transferred to you",
		Message: fmt.Sprintf("Profile %s is now owned by your account (%d leads moved)", profile.ViewID, moved),
	})

	profile.UserID = target.ID
	view := NewProfileView(profile)
	return &view, nil
}
