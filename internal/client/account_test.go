package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/services/config"
	"github.com/userhub/services/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AccountClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	accountClient, err := NewAccountClient(config.AuthServiceConfig{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return accountClient
}

func TestNewAccountClientRequiresBaseURL(t *testing.T) {
	_, err := NewAccountClient(config.AuthServiceConfig{BaseURL: "  "})
	assert.Error(t, err)
}

func TestGetAccount(t *testing.T) {
	accountID := uuid.New()
	accountClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/internal/auth/account/"+accountID.String(), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.AccountSummary{ID: accountID, Login: "alice"})
	})

	account, err := accountClient.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, account.ID)
	assert.Equal(t, "alice", account.Login)
}

func TestGetAccountNotFound(t *testing.T) {
	accountClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := accountClient.GetAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// A 5xx from the account service and an unreachable account service
// both map to ErrUnavailable, never to ErrNotFound.
func TestGetAccountUnavailable(t *testing.T) {
	accountClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := accountClient.GetAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)

	down, err := NewAccountClient(config.AuthServiceConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	_, err = down.GetAccount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteAccount(t *testing.T) {
	accountID := uuid.New()
	accountClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/internal/auth/account/"+accountID.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, accountClient.DeleteAccount(context.Background(), accountID))
}

func TestDeleteAccountStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			accountClient := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			err := accountClient.DeleteAccount(context.Background(), uuid.New())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
