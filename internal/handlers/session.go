package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Huzaifa084/HalalClassified/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SessionHandler exposes the device-local onboarding and stored-account state
type SessionHandler struct {
	store *session.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// GetOnboarding handles GET /api/v1/onboarding
func (h *SessionHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	completed, err := h.store.OnboardingCompleted()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read onboarding state")
		respondError(w, "Failed to read onboarding state", http.StatusInternalServerError)
		return
	}
	version, err := h.store.AcceptedTermsVersion()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read terms version")
		respondError(w, "Failed to read onboarding state", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"completed": completed, "terms_version": version}, http.StatusOK)
}

// SetOnboarding handles PUT /api/v1/onboarding
func (h *SessionHandler) SetOnboarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Completed    *bool `json:"completed,omitempty"`
		TermsVersion *int  `json:"terms_version,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Completed != nil {
		if err := h.store.SetOnboardingCompleted(*req.Completed); err != nil {
			log.Error().Err(err).Msg("Failed to save onboarding state")
			respondError(w, "Failed to save onboarding state", http.StatusInternalServerError)
			return
		}
	}
	if req.TermsVersion != nil {
		if err := h.store.SetAcceptedTermsVersion(*req.TermsVersion); err != nil {
			log.Error().Err(err).Msg("Failed to save terms version")
			respondError(w, "Failed to save onboarding state", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAccounts handles GET /api/v1/accounts
func (h *SessionHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.Accounts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list accounts")
		respondError(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []session.StoredAccount{}
	}
	respondJSON(w, map[string]any{"accounts": accounts}, http.StatusOK)
}

// SaveSession handles POST /api/v1/accounts/sessions
func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	var sess session.AuthSession
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SaveSession(sess); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
		respondError(w, "Failed to save session", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /api/v1/accounts/{user_id}/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	sess, err := h.store.Session(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to read session")
		respondError(w, "Failed to read session", http.StatusInternalServerError)
		return
	}
	if sess == nil {
		respondError(w, "Session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, sess, http.StatusOK)
}

// RemoveSession handles DELETE /api/v1/accounts/{user_id}
func (h *SessionHandler) RemoveSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if err := h.store.RemoveSession(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to remove session")
		respondError(w, "Failed to remove session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
