package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taptune/taptune-backend/pkg/config"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
	"github.com/taptune/taptune-backend/pkg/metrics"
)

var (
	errTokenRequired   = errors.New("whatsapp api token is required")
	errBaseURLRequired = errors.New("whatsapp base url is required")
	errLoggerRequired  = errors.New("whatsapp logger is required")
)

// Client talks to the WhatsApp automation provider. All sends are
// notification side effects and must never block entity writes.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiToken      string
	phoneNumberID string
	logger        *logger.Logger
	timeout       time.Duration
}

// NewClient validates the provider credentials and builds the wrapper.
func NewClient(ctx context.Context, cfg config.WhatsAppConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	token := strings.TrimSpace(cfg.APIToken)
	if token == "" {
		return nil, errTokenRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		apiToken:      token,
		phoneNumberID: cfg.PhoneNumberID,
		logger:        logg,
		timeout:       timeout,
	}

	logg.Info(ctx, "whatsapp client initialized")
	return c, nil
}

// Subscriber is the provider-side contact record.
type Subscriber struct {
	ID    string `json:"id"`
	Phone string `json:"phone_number"`
	Name  string `json:"name"`
}

// GetOrCreateSubscriber resolves the provider contact for a phone number,
// creating it when absent.
func (c *Client) GetOrCreateSubscriber(ctx context.Context, phone, name string) (*Subscriber, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}

	var lookup struct {
		Subscribers []Subscriber `json:"subscribers"`
	}
	err := c.do(ctx, http.MethodGet, "/subscriber/get?phone_number="+phone, nil, &lookup)
	if err == nil && len(lookup.Subscribers) > 0 {
		return &lookup.Subscribers[0], nil
	}
	if err != nil && pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		return nil, err
	}

	body := map[string]string{
		"phone_number": phone,
		"name":         name,
	}
	var created Subscriber
	if err := c.do(ctx, http.MethodPost, "/subscriber/create", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SendTemplateParams describe one outbound templated message.
type SendTemplateParams struct {
	Phone      string
	Name       string
	TemplateID string
	Variables  map[string]string
}

// SendTemplate ensures the subscriber exists and delivers the template.
func (c *Client) SendTemplate(ctx context.Context, params SendTemplateParams) error {
	if params.TemplateID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}

	sub, err := c.GetOrCreateSubscriber(ctx, params.Phone, params.Name)
	if err != nil {
		return err
	}

	body := map[string]any{
		"subscriber_id": sub.ID,
		"template_id":   params.TemplateID,
	}
	if c.phoneNumberID != "" {
		body["phone_number_id"] = c.phoneNumberID
	}
	if len(params.Variables) > 0 {
		body["variables"] = params.Variables
	}
	return c.do(ctx, http.MethodPost, "/message/send-template", body, nil)
}

// UpdateLabel tags the subscriber with a provider-side label.
func (c *Client) UpdateLabel(ctx context.Context, subscriberID, labelID string) error {
	if subscriberID == "" || labelID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscriber id and label id are required")
	}
	body := map[string]string{
		"subscriber_id": subscriberID,
		"label_id":      labelID,
	}
	return c.do(ctx, http.MethodPost, "/subscriber/update-label", body, nil)
}

// Dispatch sends the template on a detached goroutine with a bounded
// timeout. Failures are counted and logged, never returned.
func (c *Client) Dispatch(ctx context.Context, params SendTemplateParams) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		if err := c.SendTemplate(sendCtx, params); err != nil {
			metrics.WhatsAppDispatches.WithLabelValues(params.TemplateID, metrics.OutcomeError).Inc()
			c.logger.Error(sendCtx, "whatsapp dispatch failed", err)
			return
		}
		metrics.WhatsAppDispatches.WithLabelValues(params.TemplateID, metrics.OutcomeOK).Inc()
		c.logger.Info(sendCtx, "whatsapp dispatch delivered")
	}()
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding messaging request")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building messaging request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling messaging provider")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading messaging response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "messaging resource not found")
	}
	if resp.StatusCode >= 400 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("messaging provider returned status %d", resp.StatusCode))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding messaging response")
		}
	}
	return nil
}
