package types

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a user profile owned by an account in the auth
// service. AccountID is a remote reference: its existence is verified
// through the account service, not a local join.
type Profile struct {
	// ID is the unique identifier of the profile.
	ID uuid.UUID `json:"id" db:"id"`

	// AccountID references the owning account in the auth service.
	AccountID uuid.UUID `json:"account_id" db:"account_id"`

	// LastName is the profile owner's family name.
	LastName string `json:"last_name" db:"last_name"`

	// FirstName is the profile owner's given name.
	FirstName string `json:"first_name" db:"first_name"`

	// BirthDate is optional; the zero value means unset.
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`

	// Email is the profile's contact email address.
	Email string `json:"email" db:"email"`

	// Phone is the profile's contact phone number, optional.
	Phone string `json:"phone,omitempty" db:"phone"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the profile.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateProfileRequest carries the fields accepted on profile creation.
// The owning account is taken from the caller's token, never from the body.
type CreateProfileRequest struct {
	LastName  string     `json:"last_name"`
	FirstName string     `json:"first_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
}

// ProfileDetails is the partial update payload for name and birth date.
type ProfileDetails struct {
	LastName  string     `json:"last_name"`
	FirstName string     `json:"first_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// ProfileContacts is the partial update payload for contact fields.
type ProfileContacts struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
