package whatsapp

import (
	"context"
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
	client, err := NewClient(context.Background(), config.WhatsAppConfig{
		APIToken:      "wb_token",
		BaseURL:       baseURL,
		PhoneNumberID: "pn_1",
	}, logg)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	_, err := NewClient(context.Background(), config.WhatsAppConfig{BaseURL: "http://x"}, logg)
	assert.ErrorIs(t, err, errTokenRequired)

	_, err = NewClient(context.Background(), config.WhatsAppConfig{APIToken: "t"}, logg)
	assert.ErrorIs(t, err, errBaseURLRequired)
}

func TestGetOrCreateSubscriberExisting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer wb_token", r.Header.Get("Authorization"))
		require.Equal(t, "/subscriber/get", r.URL.Path)
		assert.Equal(t, "919900112233", r.URL.Query().Get("phone_number"))
		_, _ = w.Write([]byte(`{"subscribers":[{"id":"sub_1","phone_number":"919900112233","name":"Asha"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	sub, err := client.GetOrCreateSubscriber(context.Background(), "919900112233", "Asha")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
}

func TestGetOrCreateSubscriberCreatesWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriber/get":
			w.WriteHeader(http.StatusNotFound)
		case "/subscriber/create":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "919900112233", body["phone_number"])
			_, _ = w.Write([]byte(`{"id":"sub_new","phone_number":"919900112233","name":"Asha"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	sub, err := client.GetOrCreateSubscriber(context.Background(), "919900112233", "Asha")
	require.NoError(t, err)
	assert.Equal(t, "sub_new", sub.ID)
}

func TestSendTemplate(t *testing.T) {
	var sent map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscriber/get":
			_, _ = w.Write([]byte(`{"subscribers":[{"id":"sub_1"}]}`))
		case "/message/send-template":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.SendTemplate(context.Background(), SendTemplateParams{
		Phone:      "919900112233",
		Name:       "Asha",
		TemplateID: "tmpl_order",
		Variables:  map[string]string{"order_id": "ord-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sent["subscriber_id"])
	assert.Equal(t, "tmpl_order", sent["template_id"])
	assert.Equal(t, "pn_1", sent["phone_number_id"])
}

func TestSendTemplateRequiresTemplateID(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	err := client.SendTemplate(context.Background(), SendTemplateParams{Phone: "919900112233"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscriber/update-label", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sub_1", body["subscriber_id"])
		assert.Equal(t, "lbl_hot", body["label_id"])
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.UpdateLabel(context.Background(), "sub_1", "lbl_hot"))
}

func TestDoMapsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.UpdateLabel(context.Background(), "sub_1", "lbl_hot")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
