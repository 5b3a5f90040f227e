package connects

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/metrics"
	"github.com/taptune/taptune-backend/pkg/pagination"
	"github.com/taptune/taptune-backend/pkg/whatsapp"
)

// Service exposes public lead capture and the owner/staff lead views.
type Service interface {
	Capture(ctx context.Context, viewID string, input CaptureInput) (*ConnectView, error)
	ListForProfile(ctx context.Context, actorID uuid.UUID, profileID uuid.UUID, params pagination.Params) (*List, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error)
	List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error)
	UpdateLabel(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input UpdateLabelInput) (*ConnectView, error)
}

type messenger interface {
	Dispatch(ctx context.Context, params whatsapp.SendTemplateParams)
}

type service struct {
	repo      Repository
	profiles  profiles.Repository
	users     users.Repository
	notifier  notifications.Recorder
	messenger messenger
	waCfg     config.WhatsAppConfig
	logg      *logger.Logger
}

// NewService builds the connect service. The messenger may be nil when
// outbound messaging is not configured.
func NewService(repo Repository, profileRepo profiles.Repository, userRepo users.Repository, notifier notifications.Recorder, msgr messenger, waCfg config.WhatsAppConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "connects: repository is required")
	}
	if profileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "connects: profile repository is required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "connects: user repository is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "connects: notifier is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "connects: logger is required")
	}
	return &service{
		repo:      repo,
		profiles:  profileRepo,
		users:     userRepo,
		notifier:  notifier,
		messenger: msgr,
		waCfg:     waCfg,
		logg:      logg,
	}, nil
}

// Capture records a visitor's contact details against the profile behind a
// tap or scan. A stale or invalid view id is a normal not-found and writes
// nothing. The owner is copied onto the connect here and only the
// ownership transfer may rewrite it afterwards.
func (s *service) Capture(ctx context.Context, viewID string, input CaptureInput) (*ConnectView, error) {
	profile, err := s.profiles.FindByViewID(ctx, viewID)
	if err != nil {
		return nil, err
	}

	connect := &models.Connect{
		ProfileID:   profile.ID,
		UserID:      profile.UserID,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		LeadLabel:   "New",
	}
	if input.Email != "" {
		connect.Email = &input.Email
	}
	if input.CompanyName != "" {
		connect.CompanyName = &input.CompanyName
	}
	if input.Designation != "" {
		connect.Designation = &input.Designation
	}

	created, err := s.repo.Create(ctx, connect)
	if err != nil {
		return nil, err
	}

	metrics.LeadsCaptured.Inc()
	s.notifier.Record(ctx, notifications.Entry{
		UserID:  &profile.UserID,
		Type:    enums.NotificationLeadCaptured,
		Title:   "New lead",
		Message: fmt.Sprintf("%s shared their contact on %s", input.FullName, profile.ViewID),
	})
	s.dispatchWelcome(ctx, profile, input)

	view := NewConnectView(created)
	return &view, nil
}

// dispatchWelcome greets the visitor on behalf of staff-managed profiles.
// Self-service owners follow up themselves.
func (s *service) dispatchWelcome(ctx context.Context, profile *models.Profile, input CaptureInput) {
	if s.messenger == nil || s.waCfg.WelcomeTemplateID == "" {
		return
	}
	owner, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		s.logg.Error(ctx, "welcome dispatch owner lookup failed", err)
		return
	}
	if owner.Role != enums.RoleSales && owner.Role != enums.RoleAdmin {
		return
	}
	s.messenger.Dispatch(ctx, whatsapp.SendTemplateParams{
		Phone:      input.PhoneNumber,
		Name:       input.FullName,
		TemplateID: s.waCfg.WelcomeTemplateID,
		Variables: map[string]string{
			"name":  input.FullName,
			"owner": profile.FullName,
		},
	})
}

func (s *service) ListForProfile(ctx context.Context, actorID uuid.UUID, profileID uuid.UUID, params pagination.Params) (*List, error) {
	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil && profile.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "profile belongs to another user")
	}
	return s.repo.ListForProfile(ctx, profileID, params)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*List, error) {
	return s.repo.ListForUser(ctx, userID, params)
}

func (s *service) List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error) {
	scope, err := referral.Resolve(actor, selector)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, params)
}

// UpdateLabel moves a lead between buckets. Staff pass uuid.Nil as actorID
// and skip the ownership check.
func (s *service) UpdateLabel(ctx context.Context, actorID uuid.UUID, id uuid.UUID, input UpdateLabelInput) (*ConnectView, error) {
	connect, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil && connect.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "lead belongs to another user")
	}

	affected, err := s.repo.UpdateLabel(ctx, id, input.LeadLabel)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "connect not found")
	}
	connect.LeadLabel = input.LeadLabel

	view := NewConnectView(connect)
	return &view, nil
}
