package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Find looks up a chat by its (ad, buyer, seller) triple
func (r *ChatRepository) Find(ctx context.Context, adID, buyerID, sellerID string) (*models.Chat, error) {
	query := `
		SELECT id, ad_id, buyer_id, seller_id, created_at
		FROM chats
		WHERE ad_id = $1 AND buyer_id = $2 AND seller_id = $3
		LIMIT 1
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, adID, buyerID, sellerID).Scan(
		&chat.ID, &chat.AdID, &chat.BuyerID, &chat.SellerID, &chat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return &chat, nil
}

// Create inserts a chat. The unique index on (ad_id, buyer_id, seller_id)
// makes concurrent creates converge on one row: on conflict the existing
// row is returned instead of a duplicate.
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	query := `
		INSERT INTO chats (id, ad_id, buyer_id, seller_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ad_id, buyer_id, seller_id)
		DO UPDATE SET ad_id = EXCLUDED.ad_id
		RETURNING id, ad_id, buyer_id, seller_id, created_at
	`
	var created models.Chat
	err := r.db.QueryRow(ctx, query,
		chat.ID, chat.AdID, chat.BuyerID, chat.SellerID, chat.CreatedAt,
	).Scan(&created.ID, &created.AdID, &created.BuyerID, &created.SellerID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &created, nil
}

// ListByUser retrieves all chats where the user is buyer or seller, newest first
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	query := `
		SELECT id, ad_id, buyer_id, seller_id, created_at
		FROM chats
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.AdID, &chat.BuyerID, &chat.SellerID, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats: %w", err)
	}
	return chats, nil
}

// GetByID retrieves a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	query := `
		SELECT id, ad_id, buyer_id, seller_id, created_at
		FROM chats
		WHERE id = $1
	`
	var chat models.Chat
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.AdID, &chat.BuyerID, &chat.SellerID, &chat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}
