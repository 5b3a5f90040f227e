package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taptune/taptune-backend/api/responses"
	"github.com/taptune/taptune-backend/api/validators"
	"github.com/taptune/taptune-backend/internal/enquiries"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
	"github.com/taptune/taptune-backend/pkg/logger"
)

// AdminEnquiriesList pages through the contact form inbox.
func AdminEnquiriesList(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unresolvedOnly := false
		if raw := strings.TrimSpace(r.URL.Query().Get("unresolvedOnly")); raw != "" {
			unresolvedOnly, err = strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid unresolvedOnly value"))
				return
			}
		}
		list, err := svc.List(r.Context(), unresolvedOnly, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminEnquiryResolve closes an enquiry.
func AdminEnquiryResolve(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "enquiryId"), "enquiryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Resolve(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"resolved": true})
	}
}
