package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/userhub/services/internal/services"
	"github.com/userhub/services/types"
)

// AuthHandler provides the public authentication endpoints.
type AuthHandler struct {
	accountService *services.AccountService
}

func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, accountService *services.AccountService) {
	handler := NewAuthHandler(accountService)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Get("/me", handler.Me)
}

// Register creates a new account and returns its public summary.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	account, err := h.accountService.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.AccountSummary{
		ID:    account.ID,
		Login: account.Login,
	})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	tokenStr, err := h.accountService.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.AuthResponse{Token: tokenStr})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	account, err := h.accountService.GetByID(r.Context(), identity.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.AccountSummary{
		ID:    account.ID,
		Login: account.Login,
	})
}
