package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Huzaifa084/HalalClassified/internal/middleware"
	"github.com/Huzaifa084/HalalClassified/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chats *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// GetOrCreate handles POST /api/v1/chats; the caller is the buyer
func (h *ChatHandler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	var req struct {
		AdID     string `json:"ad_id"`
		SellerID string `json:"seller_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AdID == "" || req.SellerID == "" {
		respondError(w, "ad_id and seller_id are required", http.StatusBadRequest)
		return
	}

	chat, err := h.chats.GetOrCreateChat(r.Context(), req.AdID, buyerID, req.SellerID)
	if err != nil {
		log.Error().Err(err).Str("ad_id", req.AdID).Str("buyer_id", buyerID).Msg("Failed to get or create chat")
		respondError(w, "Failed to open chat", http.StatusInternalServerError)
		return
	}
	respondJSON(w, chat, http.StatusOK)
}

// List handles GET /api/v1/chats
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	chats, err := h.chats.Chats(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch chats")
		respondError(w, "Failed to fetch chats", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"chats": chats}, http.StatusOK)
}

// Messages handles GET /api/v1/chats/{chat_id}/messages
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chat_id")
	if !h.requireMember(w, r, chatID) {
		return
	}

	messages, err := h.chats.Messages(r.Context(), chatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("Failed to fetch messages")
		respondError(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]any{"messages": messages}, http.StatusOK)
}

// Send handles POST /api/v1/chats/{chat_id}/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	chatID := chi.URLParam(r, "chat_id")
	if !h.requireMember(w, r, chatID) {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chats.SendMessage(r.Context(), chatID, userID, req.Body)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Str("user_id", userID).Msg("Failed to send message")
		respondError(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	respondJSON(w, msg, http.StatusCreated)
}

// requireMember loads the chat and rejects the request unless it exists and
// the caller is its buyer or seller
func (h *ChatHandler) requireMember(w http.ResponseWriter, r *http.Request, chatID string) bool {
	userID := middleware.GetUserID(r.Context())

	chat, err := h.chats.Chat(r.Context(), chatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("Failed to fetch chat")
		respondError(w, "Failed to fetch chat", http.StatusInternalServerError)
		return false
	}
	if chat == nil {
		respondError(w, "Chat not found", http.StatusNotFound)
		return false
	}
	if chat.BuyerID != userID && chat.SellerID != userID {
		respondError(w, "Not a chat member", http.StatusForbidden)
		return false
	}
	return true
}
