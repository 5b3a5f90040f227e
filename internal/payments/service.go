package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/metrics"
	"github.com/taptune/taptune-backend/pkg/razorpay"
)

// Service exposes the payment link flow, checkout verification and the
// gateway webhook.
type Service interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*LinkResult, error)
	VerifyCheckout(ctx context.Context, input VerifyInput) (*PaymentView, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	ListForOrder(ctx context.Context, cardOrderID uuid.UUID) ([]PaymentView, error)
}

type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error)
	CreatePaymentLink(ctx context.Context, params razorpay.PaymentLinkCreateParams) (*razorpay.PaymentLink, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

type service struct {
	repo     Repository
	gateway  gateway
	notifier notifications.Recorder
	cfg      config.RazorpayConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the payment service.
func NewService(repo Repository, gw gateway, notifier notifications.Recorder, cfg config.RazorpayConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: repository is required")
	}
	if gw == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: gateway is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: notifier is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments: logger is required")
	}
	return &service{
		repo:     repo,
		gateway:  gw,
		notifier: notifier,
		cfg:      cfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// CreateLink registers a gateway order for the card order's total and wraps
// it in a hosted payment link. Retrying a still-unpaid order reuses its
// gateway order and bumps the attempt counter.
func (s *service) CreateLink(ctx context.Context, input CreateLinkInput) (*LinkResult, error) {
	order, err := s.repo.FindOrder(ctx, input.CardOrderID)
	if err != nil {
		return nil, err
	}
	if order.TotalAmountPaise == nil || *order.TotalAmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payable amount")
	}

	gatewayOrderID := ""
	attempt := 1
	existing, err := s.repo.ListForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Status == enums.PaymentStatusPaid {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}
	}
	if len(existing) > 0 {
		gatewayOrderID = existing[0].RazorpayOrderID
		count, err := s.repo.CountAttempts(ctx, gatewayOrderID)
		if err != nil {
			return nil, err
		}
		attempt = count + 1
	}

	if gatewayOrderID == "" {
		gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
			AmountPaise: *order.TotalAmountPaise,
			Receipt:     order.ID.String(),
			Notes:       map[string]string{"card_order_id": order.ID.String()},
		})
		if err != nil {
			return nil, err
		}
		gatewayOrderID = gatewayOrder.ID
	}

	link, err := s.gateway.CreatePaymentLink(ctx, razorpay.PaymentLinkCreateParams{
		AmountPaise:   *order.TotalAmountPaise,
		Description:   fmt.Sprintf("Card order %s", order.ID),
		ReferenceID:   fmt.Sprintf("%s-%d", order.ID, attempt),
		CustomerName:  order.FullName,
		CustomerPhone: order.Phone,
		CustomerEmail: order.Email,
		CallbackURL:   s.cfg.CallbackURL,
		ExpireBy:      s.now().Add(s.cfg.LinkExpiry),
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		CardOrderID:     &order.ID,
		Attempt:         attempt,
		RazorpayOrderID: gatewayOrderID,
		RazorpayLinkID:  &link.ID,
		AmountPaise:     *order.TotalAmountPaise,
		Status:          enums.PaymentStatusPending,
	}
	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	return &LinkResult{Payment: NewPaymentView(created), LinkURL: link.ShortURL}, nil
}

// VerifyCheckout validates the signature the client received from the
// checkout flow and settles the matching pending payment.
func (s *service) VerifyCheckout(ctx context.Context, input VerifyInput) (*PaymentView, error) {
	if !s.gateway.VerifyPaymentSignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid payment signature")
	}

	payment, err := s.repo.FindLatestByGatewayOrder(ctx, input.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPaid(ctx, payment.ID, input.RazorpayPaymentID, s.now()); err != nil {
		return nil, err
	}
	s.notifyPaid(ctx, payment)

	settled, err := s.repo.FindByID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	view := NewPaymentView(settled)
	return &view, nil
}

// webhookEvent is the subset of the gateway webhook envelope we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook settles or voids payments from gateway callbacks. A bad
// signature rejects the delivery without touching any row.
func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		metrics.WebhookEvents.WithLabelValues("unverified", metrics.OutcomeError).Inc()
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEvents.WithLabelValues("malformed", metrics.OutcomeError).Inc()
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed webhook payload")
	}

	err := s.applyWebhook(ctx, event)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.WebhookEvents.WithLabelValues(event.Event, outcome).Inc()
	return err
}

func (s *service) applyWebhook(ctx context.Context, event webhookEvent) error {
	linkID := event.Payload.PaymentLink.Entity.ID
	switch event.Event {
	case "payment_link.paid":
		payment, err := s.repo.FindByLinkID(ctx, linkID)
		if err != nil {
			return err
		}
		if payment.Status == enums.PaymentStatusPaid {
			return nil
		}
		if err := s.repo.MarkPaid(ctx, payment.ID, event.Payload.Payment.Entity.ID, s.now()); err != nil {
			return err
		}
		s.notifyPaid(ctx, payment)
		return nil
	case "payment_link.expired", "payment_link.cancelled":
		payment, err := s.repo.FindByLinkID(ctx, linkID)
		if err != nil {
			return err
		}
		if payment.Status != enums.PaymentStatusPending {
			return nil
		}
		return s.repo.MarkFailed(ctx, payment.ID, event.Event)
	default:
		s.logg.Info(ctx, "ignoring webhook event "+event.Event)
		return nil
	}
}

func (s *service) notifyPaid(ctx context.Context, payment *models.Payment) {
	if payment.CardOrderID == nil {
		return
	}
	order, err := s.repo.FindOrder(ctx, *payment.CardOrderID)
	if err != nil {
		s.logg.Error(ctx, "payment notification lookup failed", err)
		return
	}
	s.notifier.Record(ctx, notifications.Entry{
		UserID:  &order.UserID,
		Type:    enums.NotificationPaymentReceived,
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment of %d paise received for order %s", payment.AmountPaise, order.ID),
	})
}

func (s *service) ListForOrder(ctx context.Context, cardOrderID uuid.UUID) ([]PaymentView, error) {
	list, err := s.repo.ListForOrder(ctx, cardOrderID)
	if err != nil {
		return nil, err
	}
	return NewPaymentViews(list), nil
}
