// Package client holds the synchronous HTTP client the profile service
// uses to talk to the account service's internal API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/userhub/services/config"
	"github.com/userhub/services/types"
)

// ErrNotFound means the account service answered 404 for the id.
var ErrNotFound = errors.New("account not found upstream")

// ErrUnavailable covers every other remote failure: transport errors,
// timeouts and non-2xx statuses. Callers translate it to a dependency
// failure, never a client error.
var ErrUnavailable = errors.New("account service unavailable")

// AccountClient calls the account service's internal account endpoints.
type AccountClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAccountClient(cfg config.AuthServiceConfig) (*AccountClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("auth service base url is required")
	}
	return &AccountClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// GetAccount fetches an account summary, distinguishing "does not
// exist" from "could not ask".
func (c *AccountClient) GetAccount(ctx context.Context, id uuid.UUID) (types.AccountSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accountURL(id), nil)
	if err != nil {
		return types.AccountSummary{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.AccountSummary{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return types.AccountSummary{}, ErrNotFound
	default:
		return types.AccountSummary{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.AccountSummary{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var account types.AccountSummary
	if err := json.Unmarshal(body, &account); err != nil {
		return types.AccountSummary{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return account, nil
}

// DeleteAccount asks the account service to remove an account.
func (c *AccountClient) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.accountURL(id), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

func (c *AccountClient) accountURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/internal/auth/account/%s", c.baseURL, id)
}
