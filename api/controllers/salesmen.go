package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/api/responses"
	"github.com/taptune/taptune-backend/api/validators"
	"github.com/taptune/taptune-backend/internal/referral"
	"github.com/taptune/taptune-backend/internal/users"
	"github.com/taptune/taptune-backend/pkg/logger"
)

// SalesmenList returns every sales account for admin assignment pickers.
func SalesmenList(svc referral.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		salesmen, err := svc.ListSalesmen(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"salesmen": users.NewUserViews(salesmen)})
	}
}

// SalesmanStats returns downline counters for the actor's visible scope.
func SalesmanStats(svc referral.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selector := strings.TrimSpace(r.URL.Query().Get("scope"))
		stats, err := svc.Stats(r.Context(), actor, selector)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// SalesmanAssign rewrites referral attribution for a batch of users. A null
// salesmanId moves them into the direct-lead pool.
func SalesmanAssign(svc referral.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserIDs    []uuid.UUID `json:"userIds" validate:"required,min=1,max=500"`
			SalesmanID *uuid.UUID  `json:"salesmanId"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AssignSalesmanBulk(r.Context(), body.UserIDs, body.SalesmanID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"assigned":   len(body.UserIDs),
			"salesmanId": body.SalesmanID,
		})
	}
}
