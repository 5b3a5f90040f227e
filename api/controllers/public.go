package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/api/middleware"
	"github.com/taptune/taptune-backend/api/responses"
	"github.com/taptune/taptune-backend/api/validators"
	"github.com/taptune/taptune-backend/internal/connects"
	"github.com/taptune/taptune-backend/internal/enquiries"
	"github.com/taptune/taptune-backend/internal/profiles"
	"github.com/taptune/taptune-backend/pkg/enums"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
)

// PublicProfile serves the card page behind a viewId, counting the visit.
func PublicProfile(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewID := strings.TrimSpace(chi.URLParam(r, "viewId"))
		if viewID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "viewId is required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithViewID(ctx, viewID)
		}

		// seeded by OptionalAuth when the visitor carries a valid token
		viewer := profiles.Viewer{Role: enums.Role(middleware.RoleFromContext(ctx))}
		if raw := middleware.UserIDFromContext(ctx); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				viewer.ID = id
			}
		}

		view, err := svc.PublicView(ctx, viewID, viewer)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CaptureLead stores a visitor's contact details against a card page.
func CaptureLead(svc connects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewID := strings.TrimSpace(chi.URLParam(r, "viewId"))
		if viewID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "viewId is required"))
			return
		}

		var body connects.CaptureInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Capture(r.Context(), viewID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// EnquiryCreate accepts the public contact form.
func EnquiryCreate(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body enquiries.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
