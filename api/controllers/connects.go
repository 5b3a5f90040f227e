package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taptune/taptune-backend/api/responses"
	"github.com/taptune/taptune-backend/api/validators"
	"github.com/taptune/taptune-backend/internal/connects"
	"github.com/taptune/taptune-backend/pkg/logger"
)

// MyConnects lists the leads captured across the caller's profiles.
func MyConnects(svc connects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListMine(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"connects":   connects.NewConnectViews(list.Connects),
			"nextCursor": list.NextCursor,
		})
	}
}

// ProfileConnects lists the leads for one owned profile.
func ProfileConnects(svc connects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profileID, err := validators.ParseUUIDParam(chi.URLParam(r, "profileId"), "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListForProfile(r.Context(), userID, profileID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"connects":   connects.NewConnectViews(list.Connects),
			"nextCursor": list.NextCursor,
		})
	}
}

// StaffConnectsList returns the role-scoped lead listing.
func StaffConnectsList(svc connects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		selector := strings.TrimSpace(r.URL.Query().Get("scope"))
		list, err := svc.List(r.Context(), actor, selector, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"connects":   connects.NewConnectViews(list.Connects),
			"nextCursor": list.NextCursor,
		})
	}
}

// ConnectLabelUpdate re-tags a captured lead.
func ConnectLabelUpdate(svc connects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "connectId"), "connectId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body connects.UpdateLabelInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateLabel(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
