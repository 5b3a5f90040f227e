package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/api/middleware"
	"github.com/taptune/taptune-backend/internal/referral"
	pkgerrors "github.com/taptune/taptune-backend/pkg/errors"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorFromRequest(r *http.Request) (referral.Actor, error) {
	id, err := actorID(r)
	if err != nil {
		return referral.Actor{}, err
	}
	return referral.Actor{ID: id, Role: middleware.RoleFromContext(r.Context())}, nil
}
