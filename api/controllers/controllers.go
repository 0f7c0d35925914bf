// Package controllers holds the HTTP handler factories. Each controller is
// constructor-injected with its service and exposes http.HandlerFunc methods
// wired up by the router.
package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luxenest/luxenest-backend/api/middleware"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
)

// currentUserID resolves the authenticated user from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}
