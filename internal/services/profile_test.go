package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/services/internal/client"
	"github.com/userhub/services/internal/storage"
	"github.com/userhub/services/internal/store"
	"github.com/userhub/services/types"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]types.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]types.Profile)}
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (types.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now().UTC()
	profile.UpdatedAt = profile.CreatedAt
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if _, ok := f.profiles[profile.ID]; !ok {
		return types.Profile{}, store.ErrNotFound
	}
	profile.UpdatedAt = time.Now().UTC()
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.profiles[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

// fakeAccountChecker simulates the auth service: a fixed set of known
// accounts, an optional injected failure, and a record of deletions.
type fakeAccountChecker struct {
	known   map[uuid.UUID]bool
	err     error
	deleted []uuid.UUID
}

func newFakeAccountChecker(ids ...uuid.UUID) *fakeAccountChecker {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &fakeAccountChecker{known: known}
}

func (f *fakeAccountChecker) GetAccount(ctx context.Context, id uuid.UUID) (types.AccountSummary, error) {
	if f.err != nil {
		return types.AccountSummary{}, f.err
	}
	if !f.known[id] {
		return types.AccountSummary{}, client.ErrNotFound
	}
	return types.AccountSummary{ID: id}, nil
}

func (f *fakeAccountChecker) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if !f.known[id] {
		return client.ErrNotFound
	}
	delete(f.known, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) Bucket() string { return "test-bucket" }

func newProfileRequest() types.CreateProfileRequest {
	return types.CreateProfileRequest{
		LastName:  "Liddell",
		FirstName: "Alice",
		Email:     "alice@example.com",
	}
}

func TestCreateProfile(t *testing.T) {
	accountID := uuid.New()
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, newFakeAccountChecker(accountID), nil, slog.Default())

	profile, err := svc.Create(context.Background(), accountID, newProfileRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, profile.ID)
	assert.Equal(t, accountID, profile.AccountID, "owner must always be the caller")
}

func TestCreateProfileValidation(t *testing.T) {
	accountID := uuid.New()
	svc := NewProfileService(newFakeProfileRepo(), newFakeAccountChecker(accountID), nil, slog.Default())

	cases := []struct {
		name   string
		mutate func(*types.CreateProfileRequest)
	}{
		{"empty last name", func(r *types.CreateProfileRequest) { r.LastName = " " }},
		{"empty first name", func(r *types.CreateProfileRequest) { r.FirstName = "" }},
		{"empty email", func(r *types.CreateProfileRequest) { r.Email = "" }},
		{"email without at sign", func(r *types.CreateProfileRequest) { r.Email = "alice.example.com" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := newProfileRequest()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), accountID, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// An account the auth service does not know and an auth service that
// cannot be reached are different failures and must stay distinct.
func TestCreateProfileAccountCheck(t *testing.T) {
	knownID := uuid.New()
	checker := newFakeAccountChecker(knownID)
	svc := NewProfileService(newFakeProfileRepo(), checker, nil, slog.Default())

	_, err := svc.Create(context.Background(), uuid.New(), newProfileRequest())
	assert.ErrorIs(t, err, ErrAccountNotFound)

	checker.err = errors.New("connection refused")
	_, err = svc.Create(context.Background(), knownID, newProfileRequest())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestUpdateDetailsOwnership(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, newFakeAccountChecker(ownerID, otherID), nil, slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	details := types.ProfileDetails{LastName: "Hargreaves", FirstName: "Alice"}

	_, err = svc.UpdateDetails(context.Background(), profile.ID, otherID, details)
	assert.ErrorIs(t, err, ErrOwnershipMismatch)

	updated, err := svc.UpdateDetails(context.Background(), profile.ID, ownerID, details)
	require.NoError(t, err)
	assert.Equal(t, "Hargreaves", updated.LastName)
}

func TestUpdateContacts(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, newFakeAccountChecker(ownerID), nil, slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateContacts(context.Background(), profile.ID, ownerID, types.ProfileContacts{
		Email: "alice@wonderland.example",
		Phone: "+1 555 0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@wonderland.example", updated.Email)
	assert.Equal(t, "+1 555 0100", updated.Phone)

	_, err = svc.UpdateContacts(context.Background(), profile.ID, ownerID, types.ProfileContacts{Email: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteProfileCascadesToAccount(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeProfileRepo()
	checker := newFakeAccountChecker(ownerID)
	svc := NewProfileService(repo, checker, nil, slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), profile.ID, ownerID))
	assert.Equal(t, []uuid.UUID{ownerID}, checker.deleted)

	_, err = repo.GetByID(context.Background(), profile.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteProfileNotOwner(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	repo := newFakeProfileRepo()
	checker := newFakeAccountChecker(ownerID, otherID)
	svc := NewProfileService(repo, checker, nil, slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), profile.ID, otherID)
	assert.ErrorIs(t, err, ErrOwnershipMismatch)
	assert.Empty(t, checker.deleted)
}

func TestGetProfileNotFound(t *testing.T) {
	accountID := uuid.New()
	svc := NewProfileService(newFakeProfileRepo(), newFakeAccountChecker(accountID), nil, slog.Default())

	_, err := svc.Get(context.Background(), uuid.New(), accountID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPhotoLifecycle(t *testing.T) {
	ownerID := uuid.New()
	repo := newFakeProfileRepo()
	objects := newFakeObjectStore()
	svc := NewProfileService(repo, newFakeAccountChecker(ownerID), storage.NewStorage(objects), slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	_, err = svc.GetPhoto(context.Background(), profile.ID, ownerID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	require.NoError(t, svc.UploadPhoto(context.Background(), profile.ID, ownerID, photo))

	stored, err := svc.GetPhoto(context.Background(), profile.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, photo, stored)

	require.NoError(t, svc.DeletePhoto(context.Background(), profile.ID, ownerID))
	_, err = svc.GetPhoto(context.Background(), profile.ID, ownerID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestPhotoStorageDisabled(t *testing.T) {
	ownerID := uuid.New()
	svc := NewProfileService(newFakeProfileRepo(), newFakeAccountChecker(ownerID), nil, slog.Default())

	err := svc.UploadPhoto(context.Background(), uuid.New(), ownerID, []byte{1})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestUploadPhotoNotOwner(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, newFakeAccountChecker(ownerID, otherID), storage.NewStorage(newFakeObjectStore()), slog.Default())

	profile, err := svc.Create(context.Background(), ownerID, newProfileRequest())
	require.NoError(t, err)

	err = svc.UploadPhoto(context.Background(), profile.ID, otherID, []byte{1})
	assert.ErrorIs(t, err, ErrOwnershipMismatch)
}
