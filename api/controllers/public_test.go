package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taptune/taptune-backend/internal/connects"
	"github.com/taptune/taptune-backend/internal/referral"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/pagination"
	"github.com/taptune/taptune-backend/pkg/types"
)

type stubConnectsService struct {
	captured   []connects.CaptureInput
	captureErr error
}

func (s *stubConnectsService) Capture(_ context.Context, viewID string, input connects.CaptureInput) (*connects.ConnectView, error) {
	if s.captureErr != nil {
		return nil, s.captureErr
	}
	s.captured = append(s.captured, input)
	return &connects.ConnectView{ID: uuid.New(), FullName: input.FullName}, nil
}

func (s *stubConnectsService) ListForProfile(context.Context, uuid.UUID, uuid.UUID, pagination.Params) (*connects.List, error) {
	return &connects.List{}, nil
}

func (s *stubConnectsService) ListMine(context.Context, uuid.UUID, pagination.Params) (*connects.List, error) {
	return &connects.List{}, nil
}

func (s *stubConnectsService) List(context.Context, referral.Actor, string, pagination.Params) (*connects.List, error) {
	return &connects.List{}, nil
}

func (s *stubConnectsService) UpdateLabel(context.Context, uuid.UUID, uuid.UUID, connects.UpdateLabelInput) (*connects.ConnectView, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "connect not found")
}

func captureRouter(svc connects.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/p/{viewId}/connect", CaptureLead(svc, nil))
	return r
}

func TestCaptureLeadCreated(t *testing.T) {
	svc := &stubConnectsService{}
	body := `{"fullName":"Visitor Kaur","phoneNumber":"+919800011122"}`

	rec := httptest.NewRecorder()
	captureRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/USR-ab12-17/connect", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.captured, 1)
	assert.Equal(t, "Visitor Kaur", svc.captured[0].FullName)
}

func TestCaptureLeadRejectsUnknownFields(t *testing.T) {
	svc := &stubConnectsService{}
	body := `{"fullName":"Visitor","phoneNumber":"+919800011122","admin":true}`

	rec := httptest.NewRecorder()
	captureRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/USR-ab12-17/connect", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.captured)
}

func TestCaptureLeadUnknownPage(t *testing.T) {
	svc := &stubConnectsService{captureErr: pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")}
	body := `{"fullName":"Visitor","phoneNumber":"+919800011122"}`

	rec := httptest.NewRecorder()
	captureRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/USR-none/connect", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestCaptureLeadRequiresPhone(t *testing.T) {
	svc := &stubConnectsService{}
	body := `{"fullName":"Visitor"}`

	rec := httptest.NewRecorder()
	captureRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/p/USR-ab12-17/connect", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.captured)
}
