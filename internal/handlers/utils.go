package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/userhub/services/internal/services"
	"github.com/userhub/services/internal/token"
	"github.com/userhub/services/types"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

func withIdentity(ctx context.Context, identity token.Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}

// IdentityFromContext returns the authenticated identity attached by
// the middleware, if any. A missing identity means the request is
// anonymous; whether that is acceptable is the handler's decision.
func IdentityFromContext(ctx context.Context) (token.Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(token.Identity)
	return identity, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, types.ErrorResponse{Status: code, Message: message})
}

// writeServiceError translates the closed set of service error kinds
// into HTTP statuses. Causes are logged upstream, never returned.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", "request is not valid")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid login or password")
	case errors.Is(err, services.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account_not_found", "account not found")
	case errors.Is(err, services.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
	case errors.Is(err, services.ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, "photo_not_found", "photo not found")
	case errors.Is(err, services.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", "account already exists")
	case errors.Is(err, services.ErrOwnershipMismatch):
		writeError(w, http.StatusForbidden, "ownership_mismatch", "resource belongs to another account")
	case errors.Is(err, services.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", "dependency unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "server error")
	}
}

// requireIdentity rejects anonymous requests with 401 and returns the
// identity otherwise.
func requireIdentity(w http.ResponseWriter, r *http.Request) (token.Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return token.Identity{}, false
	}
	return identity, true
}
