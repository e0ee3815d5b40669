package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/realtime"
	"github.com/Huzaifa084/HalalClassified/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatStore is the chat row storage the service runs on
type ChatStore interface {
	Find(ctx context.Context, adID, buyerID, sellerID string) (*models.Chat, error)
	Create(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)
	GetByID(ctx context.Context, id string) (*models.Chat, error)
}

// MessageStore is the message row storage the service runs on
type MessageStore interface {
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)
	Insert(ctx context.Context, msg *models.Message) error
}

// MessageFeed produces live subscriptions to newly inserted messages
type MessageFeed interface {
	Subscribe(chatID string) *realtime.Subscription
}

// PushNotifier delivers a new-message alert to an offline device
type PushNotifier interface {
	NotifyMessage(ctx context.Context, deviceToken string, chat models.Chat, msg models.Message) error
}

// ChatService handles buyer/seller conversations and their live message feed
type ChatService struct {
	chats    ChatStore
	messages MessageStore
	feed     MessageFeed
	profiles ProfileStore
	push     PushNotifier
}

// NewChatService creates a new chat service. push may be nil when push
// notifications are not configured.
func NewChatService(chats ChatStore, messages MessageStore, feed MessageFeed, profiles ProfileStore, push PushNotifier) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		feed:     feed,
		profiles: profiles,
		push:     push,
	}
}

// GetOrCreateChat finds the conversation for the exact (ad, buyer, seller)
// triple, creating it on first contact. Sequential retries with identical
// arguments always land on the same row.
func (s *ChatService) GetOrCreateChat(ctx context.Context, adID, buyerID, sellerID string) (*models.Chat, error) {
	chat, err := s.chats.Find(ctx, adID, buyerID, sellerID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up chat: %w", err)
	}

	created, err := s.chats.Create(ctx, &models.Chat{
		ID:        uuid.New().String(),
		AdID:      adID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return created, nil
}

// Chats retrieves every conversation where the user is buyer or seller,
// newest first
func (s *ChatService) Chats(ctx context.Context, userID string) ([]models.Chat, error) {
	chats, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats: %w", err)
	}
	return chats, nil
}

// Chat retrieves one conversation by id, or nil when none exists
func (s *ChatService) Chat(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	return chat, nil
}

// Messages retrieves all messages of a chat in chronological reading order
func (s *ChatService) Messages(ctx context.Context, chatID string) ([]models.Message, error) {
	messages, err := s.messages.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// SendMessage inserts a message and returns the stored row. The body is not
// validated here. The counterpart is alerted over push in the background
// when a device token is on file.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, body string) (*models.Message, error) {
	msg := &models.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.push != nil {
		go s.notifyRecipient(*msg)
	}
	return msg, nil
}

// ObserveMessages opens a live feed of newly inserted messages for the chat.
// The caller must Cancel the subscription when done, and is responsible for
// deduplicating against messages it already holds: a message sent from the
// same client arrives both in the send response and on the feed.
func (s *ChatService) ObserveMessages(chatID string) *realtime.Subscription {
	return s.feed.Subscribe(chatID)
}

func (s *ChatService) notifyRecipient(msg models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chat, err := s.chats.GetByID(ctx, msg.ChatID)
	if err != nil {
		log.Warn().Err(err).Str("chat_id", msg.ChatID).Msg("Failed to load chat for push")
		return
	}

	recipientID := chat.BuyerID
	if msg.SenderID == chat.BuyerID {
		recipientID = chat.SellerID
	}

	profile, err := s.profiles.GetByID(ctx, recipientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", recipientID).Msg("Failed to load profile for push")
		}
		return
	}
	if profile.PushToken == nil || *profile.PushToken == "" {
		return
	}

	if err := s.push.NotifyMessage(ctx, *profile.PushToken, *chat, msg); err != nil {
		log.Warn().Err(err).Str("user_id", recipientID).Msg("Failed to deliver message push")
	}
}
