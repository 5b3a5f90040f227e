package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taptune/taptune-backend/pkg/config"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "rzp_test_secret",
		WebhookSecret: "whsec_test",
		BaseURL:       baseURL,
	}, logg)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	_, err := NewClient(context.Background(), config.RazorpayConfig{KeySecret: "s", WebhookSecret: "w"}, logg)
	assert.ErrorIs(t, err, errKeyIDRequired)

	_, err = NewClient(context.Background(), config.RazorpayConfig{KeyID: "k", WebhookSecret: "w"}, logg)
	assert.ErrorIs(t, err, errKeySecretRequired)

	_, err = NewClient(context.Background(), config.RazorpayConfig{KeyID: "k", KeySecret: "s"}, logg)
	assert.ErrorIs(t, err, errWebhookSecretRequired)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 49900, body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_test123","amount":49900,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	order, err := client.CreateOrder(context.Background(), OrderCreateParams{AmountPaise: 49900})
	require.NoError(t, err)
	assert.Equal(t, "order_test123", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.CreateOrder(context.Background(), OrderCreateParams{AmountPaise: 0})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderMapsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateOrder(context.Background(), OrderCreateParams{AmountPaise: 100})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "amount exceeds maximum")
}

func TestCreatePaymentLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_links", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"plink_test1","short_url":"https://rzp.io/l/abc","status":"created","amount":49900,"reference_id":"ord-1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	link, err := client.CreatePaymentLink(context.Background(), PaymentLinkCreateParams{
		AmountPaise: 49900,
		ReferenceID: "ord-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "plink_test1", link.ID)
	assert.Equal(t, "https://rzp.io/l/abc", link.ShortURL)
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc|pay_def"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyPaymentSignature("order_abc", "pay_def", valid))
	assert.False(t, client.VerifyPaymentSignature("order_abc", "pay_def", "tampered"))
	assert.False(t, client.VerifyPaymentSignature("", "pay_def", valid))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	body := []byte(`{"event":"payment_link.paid"}`)

	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(body, valid))
	assert.False(t, client.VerifyWebhookSignature(body, "bogus"))
	assert.False(t, client.VerifyWebhookSignature(nil, valid))
}
