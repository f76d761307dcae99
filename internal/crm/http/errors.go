package http

import (
	"errors"
	"net/http"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Handlers never invent their own mapping, so a given failure always looks
// the same regardless of which endpoint surfaced it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrRoleEscalation):
		httpx.WriteError(w, http.StatusForbidden, "role_escalation", err.Error())
	case errors.Is(err, service.ErrPlanLimitExceeded):
		httpx.WriteError(w, http.StatusForbidden, "plan_limit_exceeded", err.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvitationExpired):
		httpx.WriteError(w, http.StatusGone, "invitation_expired", err.Error())
	case errors.Is(err, service.ErrInvitationConsumed):
		httpx.WriteError(w, http.StatusConflict, "invitation_used", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", err.Error())
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}

// actorFromCtx rebuilds the service actor from the identity the authn
// middleware stored on the context.
func actorFromCtx(r *http.Request) (service.Actor, bool) {
	ctx := r.Context()
	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:    userID,
		Role:      domain.Role(httpx.RoleFromCtx(ctx)),
		CompanyID: httpx.CompanyIDFromCtx(ctx),
	}, true
}

// requireActor writes the 401 itself when no identity is present, so
// handlers can early-return.
func requireActor(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	actor, ok := actorFromCtx(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	}
	return actor, ok
}
