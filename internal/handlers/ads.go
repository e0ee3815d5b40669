package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Huzaifa084/HalalClassified/internal/middleware"
	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/repository"
	"github.com/Huzaifa084/HalalClassified/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 32 << 20

// AdHandler handles ad-related HTTP requests
type AdHandler struct {
	ads *services.AdService
}

// NewAdHandler creates a new ad handler
func NewAdHandler(ads *services.AdService) *AdHandler {
	return &AdHandler{ads: ads}
}

// Feed handles GET /api/v1/ads
func (h *AdHandler) Feed(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := repository.AdQuery{
		Search:   params.Get("q"),
		Category: params.Get("category"),
		City:     params.Get("city"),
	}
	if limitStr := params.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			q.Limit = limit
		}
	}

	ads, err := h.ads.Feed(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch feed")
		respondError(w, "Failed to fetch feed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"ads": ads}, http.StatusOK)
}

// MyAds handles GET /api/v1/ads/mine
func (h *AdHandler) MyAds(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	ads, err := h.ads.MyAds(r.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch my ads")
		respondError(w, "Failed to fetch ads", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"ads": ads}, http.StatusOK)
}

// Detail handles GET /api/v1/ads/{ad_id}
func (h *AdHandler) Detail(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")

	detail, err := h.ads.Detail(r.Context(), adID)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to fetch ad detail")
		respondError(w, "Failed to fetch ad", http.StatusInternalServerError)
		return
	}
	if detail == nil {
		respondError(w, "Ad not found", http.StatusNotFound)
		return
	}
	respondJSON(w, detail, http.StatusOK)
}

// Create handles POST /api/v1/ads. The request is multipart: an "ad" field
// holding the insert payload as JSON plus zero or more "images" files.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	var ins models.AdInsert
	if err := json.Unmarshal([]byte(r.FormValue("ad")), &ins); err != nil {
		respondError(w, "Invalid ad payload", http.StatusBadRequest)
		return
	}
	ins.UserID = userID

	uploads, err := readImageUploads(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ad, err := h.ads.Create(r.Context(), ins, uploads)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create ad")
		respondError(w, "Failed to create ad", http.StatusInternalServerError)
		return
	}

	log.Info().Str("ad_id", ad.ID).Str("user_id", userID).Int("images", len(uploads)).Msg("Ad created")
	respondJSON(w, ad, http.StatusCreated)
}

// Update handles PATCH /api/v1/ads/{ad_id}
func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")
	if !h.requireOwner(w, r, adID) {
		return
	}

	var upd models.AdUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ad, err := h.ads.Update(r.Context(), adID, upd)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to update ad")
		respondError(w, "Failed to update ad", http.StatusInternalServerError)
		return
	}
	if ad == nil {
		respondError(w, "Ad not found", http.StatusNotFound)
		return
	}
	respondJSON(w, ad, http.StatusOK)
}

// SetActive handles PUT /api/v1/ads/{ad_id}/active
func (h *AdHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")
	if !h.requireOwner(w, r, adID) {
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ad, err := h.ads.SetActive(r.Context(), adID, req.Active)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to set ad active state")
		respondError(w, "Failed to update ad", http.StatusInternalServerError)
		return
	}
	if ad == nil {
		respondError(w, "Ad not found", http.StatusNotFound)
		return
	}
	respondJSON(w, ad, http.StatusOK)
}

// ReplaceImages handles PUT /api/v1/ads/{ad_id}/images
func (h *AdHandler) ReplaceImages(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")
	if !h.requireOwner(w, r, adID) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	uploads, err := readImageUploads(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ads.ReplaceImages(r.Context(), adID, uploads); err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to replace ad images")
		respondError(w, "Failed to replace images", http.StatusInternalServerError)
		return
	}

	log.Info().Str("ad_id", adID).Int("images", len(uploads)).Msg("Ad images replaced")
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/ads/{ad_id}
func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")
	if !h.requireOwner(w, r, adID) {
		return
	}

	if err := h.ads.Delete(r.Context(), adID); err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to delete ad")
		respondError(w, "Failed to delete ad", http.StatusInternalServerError)
		return
	}

	log.Info().Str("ad_id", adID).Msg("Ad deleted")
	w.WriteHeader(http.StatusNoContent)
}

// requireOwner loads the ad and rejects the request unless it exists and is
// owned by the caller
func (h *AdHandler) requireOwner(w http.ResponseWriter, r *http.Request, adID string) bool {
	userID := middleware.GetUserID(r.Context())

	detail, err := h.ads.Detail(r.Context(), adID)
	if err != nil {
		log.Error().Err(err).Str("ad_id", adID).Msg("Failed to fetch ad for ownership check")
		respondError(w, "Failed to fetch ad", http.StatusInternalServerError)
		return false
	}
	if detail == nil {
		respondError(w, "Ad not found", http.StatusNotFound)
		return false
	}
	if detail.Ad.UserID != userID {
		respondError(w, "Not the ad owner", http.StatusForbidden)
		return false
	}
	return true
}

func readImageUploads(r *http.Request) ([]models.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["images"]
	uploads := make([]models.ImageUpload, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open image %s", header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s", header.Filename)
		}
		uploads = append(uploads, models.ImageUpload{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}
