package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Huzaifa084/HalalClassified/internal/middleware"
	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/services"

	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		respondError(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		respondError(w, "Profile not found", http.StatusNotFound)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// Upsert handles PUT /api/v1/profile
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var upsert models.ProfileUpsert
	if err := json.NewDecoder(r.Body).Decode(&upsert); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	upsert.ID = userID

	profile, err := h.profiles.Upsert(r.Context(), upsert)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert profile")
		respondError(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}

// SetPushToken handles PUT /api/v1/profile/push-token
func (h *ProfileHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), models.ProfileUpsert{
		ID:        userID,
		PushToken: &req.Token,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to save push token")
		respondError(w, "Failed to save push token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, profile, http.StatusOK)
}
