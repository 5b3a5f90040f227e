package enquiries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// CreateInput is the public contact form payload.
type CreateInput struct {
	FullName string  `json:"fullName" validate:"required,min=2,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone" validate:"omitempty,e164"`
	Message  string  `json:"message" validate:"required,min=5,max=2000"`
}

// EnquiryView is the admin-facing shape of an enquiry.
type EnquiryView struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(e *models.Enquiry) EnquiryView {
	return EnquiryView{
		ID:        e.ID,
		FullName:  e.FullName,
		Email:     e.Email,
		Phone:     e.Phone,
		Message:   e.Message,
		Resolved:  e.Resolved,
		CreatedAt: e.CreatedAt,
	}
}

// ListResult is one page of enquiries.
type ListResult struct {
	Enquiries  []EnquiryView `json:"enquiries"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

// Service handles the public contact form and the staff inbox over it.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*EnquiryView, error)
	Get(ctx context.Context, id uuid.UUID) (*EnquiryView, error)
	List(ctx context.Context, unresolvedOnly bool, params pagination.Params) (*ListResult, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	notifier notifications.Recorder
}

// NewService builds the enquiries service.
func NewService(repo Repository, notifier notifications.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "enquiries: repository is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "enquiries: notifier is required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*EnquiryView, error) {
	enquiry, err := s.repo.Create(ctx, &models.Enquiry{
		ID:       uuid.New(),
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Message:  input.Message,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Record(ctx, notifications.Entry{
		Type:    enums.NotificationEnquiry,
		Title:   "New enquiry",
		Message: "Enquiry from " + enquiry.FullName + " (" + enquiry.Email + ")",
	})

	view := toView(enquiry)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EnquiryView, error) {
	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toView(enquiry)
	return &view, nil
}

func (s *service) List(ctx context.Context, unresolvedOnly bool, params pagination.Params) (*ListResult, error) {
	list, err := s.repo.List(ctx, unresolvedOnly, params)
	if err != nil {
		return nil, err
	}
	out := &ListResult{NextCursor: list.NextCursor, Enquiries: make([]EnquiryView, 0, len(list.Enquiries))}
	for i := range list.Enquiries {
		out.Enquiries = append(out.Enquiries, toView(&list.Enquiries[i]))
	}
	return out, nil
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.MarkResolved(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing row from one already resolved.
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "enquiry is already resolved")
	}
	return nil
}
