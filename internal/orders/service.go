package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/cards"
	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/internal/payments"
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
	"github.com/taptune/taptune-backend/pkg/viewid"
	"github.com/taptune/taptune-backend/pkg/whatsapp"
)

// Service exposes the order lifecycle. PlaceOrder is the creation
// transaction that materializes an order, its profile and, on paid flows,
// the settled payment as one unit.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	List(ctx context.Context, actor referral.Actor, selector string, params pagination.Params) (*List, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderView, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type checkoutVerifier interface {
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

type messenger interface {
	Dispatch(ctx context.Context, params whatsapp.SendTemplateParams)
}

type service struct {
	repo      Repository
	users     users.Repository
	cards     cards.Repository
	profiles  profiles.Repository
	payments  payments.Repository
	tx        txRunner
	verifier  checkoutVerifier
	notifier  notifications.Recorder
	messenger messenger
	waCfg     config.WhatsAppConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service. The messenger may be nil when
// outbound messaging is not configured.
func NewService(
	repo Repository,
	userRepo users.Repository,
	cardRepo cards.Repository,
	profileRepo profiles.Repository,
	paymentRepo payments.Repository,
	tx txRunner,
	verifier checkoutVerifier,
	notifier notifications.Recorder,
	msgr messenger,
	waCfg config.WhatsAppConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: repository is required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: user repository is required")
	}
	if cardRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: card repository is required")
	}
	if profileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: profile repository is required")
	}
	if paymentRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: payment repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: transaction runner is required")
	}
	if verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: checkout verifier is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: notifier is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: logger is required")
	}
	return &service{
		repo:      repo,
		users:     userRepo,
		cards:     cardRepo,
		profiles:  profileRepo,
		payments:  paymentRepo,
		tx:        tx,
		verifier:  verifier,
		notifier:  notifier,
		messenger: msgr,
		waCfg:     waCfg,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PlaceOrder creates the card order, its inactive profile and, for paid
// checkouts, the settled payment in one transaction. The user's ordered
// flag is flipped inside the same unit. Notifications and outbound
// messaging run after commit and never fail the request.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.FindByID(ctx, input.CardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card is not available")
	}

	total := card.PricePaise * int64(input.Quantity)
	if input.Paid != nil {
		if !s.verifier.VerifyPaymentSignature(input.Paid.RazorpayOrderID, input.Paid.RazorpayPaymentID, input.Paid.Signature) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid payment signature")
		}
		total = input.Paid.AmountPaise
	}

	var (
		order   *models.CardOrder
		profile *models.Profile
		payment *models.Payment
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).MarkOrdered(ctx, user.ID); err != nil {
			return err
		}

		order = &models.CardOrder{
			ID:               uuid.New(),
			UserID:           user.ID,
			CardID:           card.ID,
			FullName:         input.FullName,
			Designation:      input.Designation,
			Phone:            input.Phone,
			Email:            input.Email,
			Quantity:         input.Quantity,
			Status:           enums.OrderStatusPending,
			TotalAmountPaise: &total,
		}
		if input.LogoImage != "" {
			order.LogoImage = &input.LogoImage
		}
		if input.DeliveryAddress != "" {
			order.DeliveryAddress = &input.DeliveryAddress
		}
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		txProfiles := s.profiles.WithTx(tx)
		generated, err := viewid.GenerateUnique(ctx, order.ID, txProfiles.ViewIDExists)
		if err != nil {
			return err
		}
		profile = &models.Profile{
			ID:          uuid.New(),
			UserID:      user.ID,
			ViewID:      generated,
			CardOrderID: &order.ID,
			FullName:    input.FullName,
			Designation: input.Designation,
			Phone:       input.Phone,
			Email:       input.Email,
			IsActive:    false,
		}
		if input.LogoImage != "" {
			profile.LogoImage = &input.LogoImage
		}
		if _, err := txProfiles.Create(ctx, profile); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).LinkProfile(ctx, order.ID, profile.ID); err != nil {
			return err
		}
		order.ProfileID = &profile.ID

		if input.Paid != nil {
			txPayments := s.payments.WithTx(tx)
			attempts, err := txPayments.CountAttempts(ctx, input.Paid.RazorpayOrderID)
			if err != nil {
				return err
			}
			paidAt := s.now()
			payment = &models.Payment{
				CardOrderID:       &order.ID,
				Attempt:           attempts + 1,
				RazorpayOrderID:   input.Paid.RazorpayOrderID,
				RazorpayPaymentID: &input.Paid.RazorpayPaymentID,
				AmountPaise:       input.Paid.AmountPaise,
				Status:            enums.PaymentStatusPaid,
				PaidAt:            &paidAt,
			}
			if _, err := txPayments.Create(ctx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	s.notifier.Record(ctx, notifications.Entry{
		Type:    enums.NotificationOrderCreated,
		Title:   "New card order",
		Message: fmt.Sprintf("%s ordered %d x %s", user.FullName, input.Quantity, card.Name),
	})
	if s.messenger != nil && s.waCfg.OrderTemplateID != "" {
		s.messenger.Dispatch(ctx, whatsapp.SendTemplateParams{
			Phone:      input.Phone,
			Name:       input.FullName,
			TemplateID: s.waCfg.OrderTemplateID,
			Variables: map[string]string{
				"name":     input.FullName,
				"card":     card.Name,
				"quantity": fmt.Sprintf("%d", input.Quantity),
			},
		})
	}

	result := &PlaceOrderResult{
		Order:   NewOrderView(order),
		Profile: profiles.NewProfileView(profile),
	}
	if payment != nil {
		view := payments.NewPaymentView(payment)
		result.Payment = &view
	}
	return result, nil
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

// UpdateStatus moves an order along its lifecycle. Skipping states or
// editing a terminal order is rejected.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderView, error) {
	next, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	order.Status = next

	s.notifier.Record(ctx, notifications.Entry{
		UserID:  &order.UserID,
		Type:    enums.NotificationOrderStatus,
		Title:   "Order update",
		Message: fmt.Sprintf("Your order is now %s", next),
	})

	view := NewOrderView(order)
	return &view, nil
}
