package repository

import (
	"context"
	"fmt"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository handles database operations for favorites
type FavoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListAdIDs retrieves the ids of all ads a user has saved, newest first
func (r *FavoriteRepository) ListAdIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT ad_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite ad ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}
	return ids, nil
}

// Exists checks whether a favorite row exists for the (user, ad) pair
func (r *FavoriteRepository) Exists(ctx context.Context, userID, adID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND ad_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, adID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite existence: %w", err)
	}
	return exists, nil
}

// Insert saves an ad for a user. The unique index on (user_id, ad_id) keeps
// a racing double-insert from producing two rows.
func (r *FavoriteRepository) Insert(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, ad_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, ad_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, fav.ID, fav.UserID, fav.AdID, fav.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// Delete removes the favorite row for the (user, ad) pair
func (r *FavoriteRepository) Delete(ctx context.Context, userID, adID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND ad_id = $2`, userID, adID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}
