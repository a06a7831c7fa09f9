package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/userhub/services/internal/services"
	"github.com/userhub/services/internal/token"
	"github.com/userhub/services/types"
)

// maxPhotoBytes bounds the raw photo body read into memory.
const maxPhotoBytes = 8 << 20

// ProfileHandler provides HTTP handlers for user profiles. Every
// operation requires an authenticated identity; ownership is enforced
// by the service.
type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRouter registers profile routes on the given router.
func ProfileRouter(r chi.Router, profileService *services.ProfileService) {
	handler := NewProfileHandler(profileService)

	r.Post("/", handler.CreateProfile)
	r.Route("/{profileID}", func(r chi.Router) {
		r.Get("/", handler.GetProfile)
		r.Delete("/", handler.DeleteProfile)
		r.Patch("/details", handler.UpdateDetails)
		r.Patch("/contacts", handler.UpdateContacts)
		r.Post("/photo", handler.UploadPhoto)
		r.Get("/photo", handler.GetPhoto)
		r.Delete("/photo", handler.DeletePhoto)
	})
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req types.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	profile, err := h.profileService.Create(r.Context(), identity.AccountID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(r.Context(), profileID, identity.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	if err := h.profileService.Delete(r.Context(), profileID, identity.AccountID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	var details types.ProfileDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	profile, err := h.profileService.UpdateDetails(r.Context(), profileID, identity.AccountID, details)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateContacts(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	var contacts types.ProfileContacts
	if err := json.NewDecoder(r.Body).Decode(&contacts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	profile, err := h.profileService.UpdateContacts(r.Context(), profileID, identity.AccountID, contacts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UploadPhoto accepts the photo as the raw request body.
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	photo, err := io.ReadAll(io.LimitReader(r.Body, maxPhotoBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "failed to read photo body")
		return
	}
	if len(photo) > maxPhotoBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "invalid_input", "photo too large")
		return
	}

	if err := h.profileService.UploadPhoto(r.Context(), profileID, identity.AccountID, photo); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *ProfileHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	photo, err := h.profileService.GetPhoto(r.Context(), profileID, identity.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo)
}

func (h *ProfileHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	identity, profileID, ok := profileRequest(w, r)
	if !ok {
		return
	}

	if err := h.profileService.DeletePhoto(r.Context(), profileID, identity.AccountID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func profileRequest(w http.ResponseWriter, r *http.Request) (identity token.Identity, profileID uuid.UUID, ok bool) {
	identity, ok = requireIdentity(w, r)
	if !ok {
		return identity, uuid.Nil, false
	}
	profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid profile id")
		return identity, uuid.Nil, false
	}
	return identity, profileID, true
}
