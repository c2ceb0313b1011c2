package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tradehub-app/tradehub-backend/api/middleware"
	pkgerrors "github.com/tradehub-app/tradehub-backend/pkg/errors"
)

// tenantID extracts the authenticated company scope from the request
// context. Handlers never accept a tenant id from the body or query.
func tenantID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CompanyIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid company context")
	}
	return id, nil
}
