package reviewcards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// CreateInput is the payload for requesting a design-review card run.
type CreateInput struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=120"`
	Phone           string `json:"phone" validate:"required,min=8,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Quantity        int    `json:"quantity" validate:"required,gte=1"`
	DeliveryAddress string `json:"deliveryAddress" validate:"omitempty,max=500"`
	AmountPaise     int64  `json:"amountPaise" validate:"omitempty,gt=0"`
}

// UpdateStatusInput names the next review lifecycle state.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// SetDesignInput attaches the finished design artwork.
type SetDesignInput struct {
	DesignURL string `json:"designUrl" validate:"required,url"`
}

// OrderView is the wire shape for a review card order.
type OrderView struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"userId"`
	FullName         string                  `json:"fullName"`
	Phone            string                  `json:"phone"`
	Email            string                  `json:"email"`
	CardDesignURL    *string                 `json:"cardDesignUrl,omitempty"`
	Quantity         int                     `json:"quantity"`
	Status           enums.ReviewOrderStatus `json:"status"`
	DeliveryAddress  *string                 `json:"deliveryAddress,omitempty"`
	TotalAmountPaise *int64                  `json:"totalAmountPaise,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// NewOrderView maps the model to its wire shape.
func NewOrderView(order *models.ReviewCardOrder) OrderView {
	return OrderView{
		ID:               order.ID,
		UserID:           order.UserID,
		FullName:         order.FullName,
		Phone:            order.Phone,
		Email:            order.Email,
		CardDesignURL:    order.CardDesignURL,
		Quantity:         order.Quantity,
		Status:           order.Status,
		DeliveryAddress:  order.DeliveryAddress,
		TotalAmountPaise: order.TotalAmountPaise,
		CreatedAt:        order.CreatedAt,
	}
}

// NewOrderViews maps a slice of models.
func NewOrderViews(orders []models.ReviewCardOrder) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderView(&orders[i]))
	}
	return out
}

// Service exposes the review card order lifecycle.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*OrderView, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderView, error)
	SetDesign(ctx context.Context, id uuid.UUID, input SetDesignInput) (*OrderView, error)
}

type service struct {
	repo     Repository
	notifier notifications.Recorder
}

// NewService builds the review card service.
func NewService(repo Repository, notifier notifications.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reviewcards: repository is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reviewcards: notifier is required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*OrderView, error) {
	order := &models.ReviewCardOrder{
		UserID:   userID,
		FullName: input.FullName,
		Phone:    input.Phone,
		Email:    input.Email,
		Quantity: input.Quantity,
		Status:   enums.ReviewOrderStatusPending,
	}
	if input.DeliveryAddress != "" {
		order.DeliveryAddress = &input.DeliveryAddress
	}
	if input.AmountPaise > 0 {
		order.TotalAmountPaise = &input.AmountPaise
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.notifier.Record(ctx, notifications.Entry{
		Type:    enums.NotificationOrderCreated,
		Title:   "New review card order",
		Message: fmt.Sprintf("%s requested %d review cards", input.FullName, input.Quantity),
	})

	view := NewOrderView(created)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewOrderView(order)
	return &view, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	list, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewOrderViews(list), nil
}

func (s *service) List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error) {
	scope, err := referral.Resolve(actor, selector)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope, params)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderView, error) {
	next, err := enums.ParseReviewOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move review order from %s to %s", order.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	order.Status = next

	s.notifier.Record(ctx, notifications.Entry{
		UserID:  &order.UserID,
		Type:    enums.NotificationOrderStatus,
		Title:   "Review order update",
		Message: fmt.Sprintf("Your review card order is now %s", next),
	})

	view := NewOrderView(order)
	return &view, nil
}

func (s *service) SetDesign(ctx context.Context, id uuid.UUID, input SetDesignInput) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.ReviewOrderStatusDelivered || order.Status == enums.ReviewOrderStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("review order in %s can no longer change", order.Status))
	}
	if err := s.repo.SetDesignURL(ctx, id, input.DesignURL); err != nil {
		return nil, err
	}
	order.CardDesignURL = &input.DesignURL

	view := NewOrderView(order)
	return &view, nil
}
