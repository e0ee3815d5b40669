package handlers

import (
	"net/http"

	"github.com/Huzaifa084/HalalClassified/internal/middleware"
	"github.com/Huzaifa084/HalalClassified/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FavoriteHandler handles favorite-related HTTP requests
type FavoriteHandler struct {
	favorites *services.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// ListIDs handles GET /api/v1/favorites/ids
func (h *FavoriteHandler) ListIDs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ids, err := h.favorites.FavoriteAdIDs(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch favorite ids")
		respondError(w, "Failed to fetch favorites", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, map[string]any{"ad_ids": ids}, http.StatusOK)
}

// List handles GET /api/v1/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ads, err := h.favorites.Favorites(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch favorites")
		respondError(w, "Failed to fetch favorites", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"ads": ads}, http.StatusOK)
}

// Toggle handles POST /api/v1/favorites/{ad_id}/toggle
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	adID := chi.URLParam(r, "ad_id")

	favorited, err := h.favorites.Toggle(r.Context(), userID, adID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("ad_id", adID).Msg("Failed to toggle favorite")
		respondError(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"favorited": favorited}, http.StatusOK)
}
