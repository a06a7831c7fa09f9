package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/userhub/services/internal/client"
	"github.com/userhub/services/internal/storage"
	"github.com/userhub/services/internal/store"
	"github.com/userhub/services/types"
)

const photoContentType = "image/jpeg"

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Profile, error)
	Create(ctx context.Context, profile types.Profile) (types.Profile, error)
	Update(ctx context.Context, profile types.Profile) (types.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountChecker is the slice of the account service consumed here: a
// remote existence check and account deletion.
type AccountChecker interface {
	GetAccount(ctx context.Context, id uuid.UUID) (types.AccountSummary, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// ProfileService encapsulates profile use-cases: CRUD restricted to the
// owning account, with account existence verified against the auth
// service rather than a local join.
type ProfileService struct {
	repo     ProfileRepository
	accounts AccountChecker
	storage  *storage.Storage
	logger   *slog.Logger
}

func NewProfileService(repo ProfileRepository, accounts AccountChecker, photoStorage *storage.Storage, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		repo:     repo,
		accounts: accounts,
		storage:  photoStorage,
		logger:   logger,
	}
}

// Create attaches a new profile to the caller's account after the
// remote existence check passes. The owner is always the caller; the
// request body cannot designate a different account.
func (s *ProfileService) Create(ctx context.Context, accountID uuid.UUID, req types.CreateProfileRequest) (types.Profile, error) {
	if err := validateProfileFields(req.LastName, req.FirstName, req.Email); err != nil {
		return types.Profile{}, err
	}
	if err := s.checkAccount(ctx, accountID); err != nil {
		return types.Profile{}, err
	}

	profile, err := s.repo.Create(ctx, types.Profile{
		AccountID: accountID,
		LastName:  strings.TrimSpace(req.LastName),
		FirstName: strings.TrimSpace(req.FirstName),
		BirthDate: req.BirthDate,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return types.Profile{}, err
	}

	s.logger.Info("profile created", "profile_id", profile.ID, "account_id", accountID)
	return profile, nil
}

// Get returns a profile after verifying the caller's account still
// exists upstream.
func (s *ProfileService) Get(ctx context.Context, profileID, callerAccountID uuid.UUID) (types.Profile, error) {
	if err := s.checkAccount(ctx, callerAccountID); err != nil {
		return types.Profile{}, err
	}
	return s.findProfile(ctx, profileID)
}

// Delete removes a profile and then asks the auth service to delete the
// owning account. The upstream delete failing surfaces to the caller;
// the local delete is not rolled back (the account can be re-deleted).
func (s *ProfileService) Delete(ctx context.Context, profileID, callerAccountID uuid.UUID) error {
	if err := s.checkAccount(ctx, callerAccountID); err != nil {
		return err
	}
	profile, err := s.findProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if err := assertOwnership(profile.AccountID, callerAccountID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if err := s.deleteAccount(ctx, profile.AccountID); err != nil {
		s.logger.Warn("account deletion after profile removal failed",
			"account_id", profile.AccountID, "error", err)
		return err
	}

	s.logger.Info("profile deleted", "profile_id", profileID, "account_id", profile.AccountID)
	return nil
}

// UpdateDetails replaces the name and birth date fields. Owner only.
func (s *ProfileService) UpdateDetails(ctx context.Context, profileID, callerAccountID uuid.UUID, details types.ProfileDetails) (types.Profile, error) {
	if strings.TrimSpace(details.LastName) == "" || strings.TrimSpace(details.FirstName) == "" {
		return types.Profile{}, ErrInvalidInput
	}

	profile, err := s.ownedProfile(ctx, profileID, callerAccountID)
	if err != nil {
		return types.Profile{}, err
	}

	profile.LastName = strings.TrimSpace(details.LastName)
	profile.FirstName = strings.TrimSpace(details.FirstName)
	profile.BirthDate = details.BirthDate
	return s.saveProfile(ctx, profile)
}

// UpdateContacts replaces the email and phone fields. Owner only.
func (s *ProfileService) UpdateContacts(ctx context.Context, profileID, callerAccountID uuid.UUID, contacts types.ProfileContacts) (types.Profile, error) {
	if strings.TrimSpace(contacts.Email) == "" {
		return types.Profile{}, ErrInvalidInput
	}

	profile, err := s.ownedProfile(ctx, profileID, callerAccountID)
	if err != nil {
		return types.Profile{}, err
	}

	profile.Email = strings.TrimSpace(contacts.Email)
	profile.Phone = strings.TrimSpace(contacts.Phone)
	return s.saveProfile(ctx, profile)
}

// UploadPhoto stores the profile photo in object storage, keyed by
// profile id. Re-uploading overwrites the previous photo.
func (s *ProfileService) UploadPhoto(ctx context.Context, profileID, callerAccountID uuid.UUID, photo []byte) error {
	if len(photo) == 0 {
		return ErrInvalidInput
	}
	if s.storage == nil {
		return ErrUpstreamUnavailable
	}
	if _, err := s.ownedProfile(ctx, profileID, callerAccountID); err != nil {
		return err
	}
	return s.storage.Put(ctx, photoKey(profileID), bytes.NewReader(photo), int64(len(photo)), photoContentType)
}

// GetPhoto returns the stored photo bytes, or ErrPhotoNotFound when the
// profile has none.
func (s *ProfileService) GetPhoto(ctx context.Context, profileID, callerAccountID uuid.UUID) ([]byte, error) {
	if s.storage == nil {
		return nil, ErrUpstreamUnavailable
	}
	if err := s.checkAccount(ctx, callerAccountID); err != nil {
		return nil, err
	}
	if _, err := s.findProfile(ctx, profileID); err != nil {
		return nil, err
	}

	reader, err := s.storage.Get(ctx, photoKey(profileID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	defer reader.Close()

	photo, err := io.ReadAll(reader)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return photo, nil
}

// DeletePhoto removes the stored photo. Owner only.
func (s *ProfileService) DeletePhoto(ctx context.Context, profileID, callerAccountID uuid.UUID) error {
	if s.storage == nil {
		return ErrUpstreamUnavailable
	}
	if _, err := s.ownedProfile(ctx, profileID, callerAccountID); err != nil {
		return err
	}
	return s.storage.Delete(ctx, photoKey(profileID))
}

// checkAccount performs the remote existence check. A remote 404 and a
// remote failure map to different kinds; conflating them would turn
// dependency outages into client errors.
func (s *ProfileService) checkAccount(ctx context.Context, accountID uuid.UUID) error {
	_, err := s.accounts.GetAccount(ctx, accountID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrNotFound):
		return ErrAccountNotFound
	default:
		s.logger.Error("account service unreachable", "error", err)
		return ErrUpstreamUnavailable
	}
}

func (s *ProfileService) deleteAccount(ctx context.Context, accountID uuid.UUID) error {
	err := s.accounts.DeleteAccount(ctx, accountID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrNotFound):
		return ErrAccountNotFound
	default:
		return ErrUpstreamUnavailable
	}
}

// ownedProfile loads a profile and enforces the ownership invariant for
// mutations: account existence, then owner equality.
func (s *ProfileService) ownedProfile(ctx context.Context, profileID, callerAccountID uuid.UUID) (types.Profile, error) {
	if err := s.checkAccount(ctx, callerAccountID); err != nil {
		return types.Profile{}, err
	}
	profile, err := s.findProfile(ctx, profileID)
	if err != nil {
		return types.Profile{}, err
	}
	if err := assertOwnership(profile.AccountID, callerAccountID); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}

func (s *ProfileService) findProfile(ctx context.Context, profileID uuid.UUID) (types.Profile, error) {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Profile{}, ErrProfileNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

func (s *ProfileService) saveProfile(ctx context.Context, profile types.Profile) (types.Profile, error) {
	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Profile{}, ErrProfileNotFound
		}
		return types.Profile{}, err
	}
	return updated, nil
}

// assertOwnership compares account ids by value. uuid.UUID is a value
// type, so == is exact byte equality.
func assertOwnership(ownerAccountID, callerAccountID uuid.UUID) error {
	if ownerAccountID != callerAccountID {
		return ErrOwnershipMismatch
	}
	return nil
}

func photoKey(profileID uuid.UUID) string {
	return fmt.Sprintf("profiles/%s/photo", profileID)
}

func validateProfileFields(lastName, firstName, email string) error {
	if strings.TrimSpace(lastName) == "" || strings.TrimSpace(firstName) == "" {
		return ErrInvalidInput
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	return nil
}
