package payments

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/internal/notifications"
	"github.com/taptune/taptune-backend/pkg/config"
	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/razorpay"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:payments_" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS card_orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  card_id TEXT NOT NULL,
  profile_id TEXT,
  full_name TEXT NOT NULL,
  designation TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'Pending',
  logo_image TEXT,
  delivery_address TEXT,
  total_amount_paise INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  card_order_id TEXT,
  review_card_order_id TEXT,
  is_review_card INTEGER NOT NULL DEFAULT 0,
  attempt INTEGER NOT NULL,
  razorpay_order_id TEXT NOT NULL,
  razorpay_payment_id TEXT,
  razorpay_link_id TEXT,
  amount_paise INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  failure_reason TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_payments_razorpay_order_attempt UNIQUE (razorpay_order_id, attempt)
);
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

type fakeGateway struct {
	orders        int
	links         int
	validPayment  bool
	validWebhook  bool
	lastLinkPhone string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error) {
	g.orders++
	return &razorpay.Order{ID: fmt.Sprintf("order_fake_%d_%s", g.orders, uuid.NewString()[:8]), AmountPaise: params.AmountPaise, Status: "created"}, nil
}

func (g *fakeGateway) CreatePaymentLink(ctx context.Context, params razorpay.PaymentLinkCreateParams) (*razorpay.PaymentLink, error) {
	g.links++
	g.lastLinkPhone = params.CustomerPhone
	return &razorpay.PaymentLink{
		ID:          fmt.Sprintf("plink_fake_%d_%s", g.links, uuid.NewString()[:8]),
		ShortURL:    "https://rzp.test/pay",
		Status:      "created",
		AmountPaise: params.AmountPaise,
	}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return g.validPayment
}

func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return g.validWebhook
}

func testPaymentsService(t *testing.T, db *gorm.DB, gw *fakeGateway) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	notifier, err := notifications.NewService(notifications.NewRepository(db), logg)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(db), gw, notifier, config.RazorpayConfig{LinkExpiry: 20 * time.Minute}, logg)
	require.NoError(t, err)
	return svc
}

func seedPayableOrder(t *testing.T, db *gorm.DB) *models.CardOrder {
	t.Helper()
	amount := int64(149900)
	order := &models.CardOrder{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		CardID:           uuid.New(),
		FullName:         "Payer",
		Designation:      "Founder",
		Phone:            "+919900000000",
		Email:            "payer@example.com",
		Quantity:         1,
		Status:           enums.OrderStatusPending,
		TotalAmountPaise: &amount,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestAttemptUniqueness(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	gatewayOrderID := "order_" + uuid.NewString()[:12]

	for attempt := 1; attempt <= 2; attempt++ {
		_, err := repo.Create(ctx, &models.Payment{
			CardOrderID:     &orderID,
			Attempt:         attempt,
			RazorpayOrderID: gatewayOrderID,
			AmountPaise:     100,
			Status:          enums.PaymentStatusPending,
		})
		require.NoError(t, err)
	}

	_, err := repo.Create(ctx, &models.Payment{
		CardOrderID:     &orderID,
		Attempt:         1,
		RazorpayOrderID: gatewayOrderID,
		AmountPaise:     100,
		Status:          enums.PaymentStatusPending,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	count, err := repo.CountAttempts(ctx, gatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCreateLinkAndRetryBumpsAttempt(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)

	first, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Payment.Attempt)
	assert.Equal(t, "https://rzp.test/pay", first.LinkURL)
	assert.Equal(t, order.Phone, gw.lastLinkPhone)

	second, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Payment.Attempt)
	assert.Equal(t, first.Payment.RazorpayOrderID, second.Payment.RazorpayOrderID)
	assert.Equal(t, 1, gw.orders)
	assert.Equal(t, 2, gw.links)
}

func TestCreateLinkRejectsPaidOrder(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{validPayment: true}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)
	link, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)

	_, err = svc.VerifyCheckout(ctx, VerifyInput{
		RazorpayOrderID:   link.Payment.RazorpayOrderID,
		RazorpayPaymentID: "pay_fake",
		Signature:         "sig",
	})
	require.NoError(t, err)

	_, err = svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestVerifyCheckoutRejectsBadSignature(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{validPayment: false}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)
	link, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)

	_, err = svc.VerifyCheckout(ctx, VerifyInput{
		RazorpayOrderID:   link.Payment.RazorpayOrderID,
		RazorpayPaymentID: "pay_fake",
		Signature:         "bad",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	var stored models.Payment
	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	assert.Equal(t, enums.PaymentStatusPending, stored.Status)
}

func TestWebhookPaidSettlesPayment(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{validWebhook: true}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)
	link, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)

	var stored models.Payment
	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	require.NotNil(t, stored.RazorpayLinkID)

	body := fmt.Sprintf(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":%q,"order_id":%q,"status":"paid"}},"payment":{"entity":{"id":"pay_hook"}}}}`,
		*stored.RazorpayLinkID, stored.RazorpayOrderID)
	require.NoError(t, svc.HandleWebhook(ctx, []byte(body), "sig"))

	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	assert.Equal(t, enums.PaymentStatusPaid, stored.Status)
	require.NotNil(t, stored.RazorpayPaymentID)
	assert.Equal(t, "pay_hook", *stored.RazorpayPaymentID)

	// redelivery is a no-op
	require.NoError(t, svc.HandleWebhook(ctx, []byte(body), "sig"))
}

func TestWebhookBadSignatureMutatesNothing(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{validWebhook: false}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)
	link, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)

	var stored models.Payment
	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	require.NotNil(t, stored.RazorpayLinkID)

	body := fmt.Sprintf(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":%q}}}}`, *stored.RazorpayLinkID)
	err = svc.HandleWebhook(ctx, []byte(body), "forged")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	assert.Equal(t, enums.PaymentStatusPending, stored.Status)
}

func TestWebhookExpiredVoidsPayment(t *testing.T) {
	db := setupPaymentsTestDB(t)
	gw := &fakeGateway{validWebhook: true}
	svc := testPaymentsService(t, db, gw)
	ctx := context.Background()

	order := seedPayableOrder(t, db)
	link, err := svc.CreateLink(ctx, CreateLinkInput{CardOrderID: order.ID})
	require.NoError(t, err)

	var stored models.Payment
	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	require.NotNil(t, stored.RazorpayLinkID)

	body := fmt.Sprintf(`{"event":"payment_link.expired","payload":{"payment_link":{"entity":{"id":%q}}}}`, *stored.RazorpayLinkID)
	require.NoError(t, svc.HandleWebhook(ctx, []byte(body), "sig"))

	require.NoError(t, db.Where("id = ?", link.Payment.ID).First(&stored).Error)
	assert.Equal(t, enums.PaymentStatusFailed, stored.Status)
	require.NotNil(t, stored.FailureReason)
	assert.Equal(t, "payment_link.expired", *stored.FailureReason)
}
