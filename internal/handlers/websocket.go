package handlers

import (
	"net/http"

	"github.com/Huzaifa084/HalalClassified/internal/auth"
	"github.com/Huzaifa084/HalalClassified/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams the live message feed of a chat to clients
type WebSocketHandler struct {
	chats  *services.ChatService
	tokens *auth.TokenVerifier
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(chats *services.ChatService, tokens *auth.TokenVerifier) *WebSocketHandler {
	return &WebSocketHandler{
		chats:  chats,
		tokens: tokens,
	}
}

// ObserveMessages handles GET /ws/chats/{chat_id}. Every message inserted
// into the chat after the subscription opens is pushed to the client as one
// JSON frame. Clients deduplicate against rows they already fetched or got
// back from their own sends.
func (h *WebSocketHandler) ObserveMessages(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}
	userID, err := h.tokens.Verify(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	chatID := chi.URLParam(r, "chat_id")
	chat, err := h.chats.Chat(r.Context(), chatID)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("Failed to fetch chat")
		respondError(w, "Failed to fetch chat", http.StatusInternalServerError)
		return
	}
	if chat == nil {
		respondError(w, "Chat not found", http.StatusNotFound)
		return
	}
	if chat.BuyerID != userID && chat.SellerID != userID {
		respondError(w, "Not a chat member", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	sub := h.chats.ObserveMessages(chatID)
	defer sub.Cancel()

	log.Info().Str("chat_id", chatID).Str("user_id", userID).Msg("Message feed opened")

	// drain the client side only to notice disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Str("chat_id", chatID).Msg("Message feed read error")
				}
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("chat_id", chatID).Msg("Message feed write error")
				return
			}
		case <-done:
			return
		}
	}
}
