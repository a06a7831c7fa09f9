package types

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a credential record in the auth service.
type Account struct {
	// ID is the unique identifier of the account.
	ID uuid.UUID `json:"id" db:"id"`

	// Login is the unique login name chosen at registration.
	Login string `json:"login" db:"login"`

	// PasswordHash stores the hashed representation of the account password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// AccountSummary is the public view of an account, returned to clients
// and to the profile service over the internal API.
type AccountSummary struct {
	ID    uuid.UUID `json:"id"`
	Login string    `json:"login"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
