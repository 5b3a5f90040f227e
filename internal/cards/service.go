package cards

import (
	"context"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

// Service exposes catalog operations. Mutations are reserved for admins by
// the transport layer; the service itself only enforces data rules.
type Service interface {
	Create(ctx context.Context, input CreateCardInput) (*CardView, error)
	Get(ctx context.Context, id uuid.UUID) (*CardView, error)
	ListActive(ctx context.Context) ([]CardView, error)
	ListAll(ctx context.Context) ([]CardView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardView, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cards: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCardInput) (*CardView, error) {
	card := &models.Card{
		Name:       input.Name,
		Category:   input.Category,
		FrontImage: input.FrontImage,
		PricePaise: input.PricePaise,
		IsActive:   true,
	}
	if input.BackImage != "" {
		card.BackImage = &input.BackImage
	}
	created, err := s.repo.Create(ctx, card)
	if err != nil {
		return nil, err
	}
	view := NewCardView(created)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CardView, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewCardView(card)
	return &view, nil
}

func (s *service) ListActive(ctx context.Context) ([]CardView, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return NewCardViews(list), nil
}

func (s *service) ListAll(ctx context.Context) ([]CardView, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewCardViews(list), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCardInput) (*CardView, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		card.Name = *input.Name
	}
	if input.Category != nil {
		card.Category = *input.Category
	}
	if input.FrontImage != nil {
		card.FrontImage = *input.FrontImage
	}
	if input.BackImage != nil {
		card.BackImage = input.BackImage
	}
	if input.PricePaise != nil {
		card.PricePaise = *input.PricePaise
	}
	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	view := NewCardView(card)
	return &view, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
	}
	return nil
}
