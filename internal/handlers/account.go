package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/userhub/services/internal/services"
	"github.com/userhub/services/types"
)

// AccountHandler serves the internal account API consumed by the
// profile service. These routes are not exposed publicly.
type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// InternalAccountRouter registers the internal account routes.
func InternalAccountRouter(r chi.Router, accountService *services.AccountService) {
	handler := NewAccountHandler(accountService)

	r.Route("/{accountID}", func(r chi.Router) {
		r.Get("/", handler.GetAccount)
		r.Delete("/", handler.DeleteAccount)
	})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid account id")
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.AccountSummary{
		ID:    account.ID,
		Login: account.Login,
	})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseAccountID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid account id")
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseAccountID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "accountID"))
}
