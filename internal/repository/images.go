package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdImageRepository handles database operations for ad images
type AdImageRepository struct {
	db *pgxpool.Pool
}

// NewAdImageRepository creates a new ad image repository
func NewAdImageRepository(db *pgxpool.Pool) *AdImageRepository {
	return &AdImageRepository{db: db}
}

// ListByAdIDs retrieves all images belonging to the given ads. An empty id
// set yields an empty result without touching the database.
func (r *AdImageRepository) ListByAdIDs(ctx context.Context, adIDs []string) ([]models.AdImage, error) {
	if len(adIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, ad_id, path, image_url, created_at
		FROM ad_images
		WHERE ad_id = ANY($1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, adIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list ad images: %w", err)
	}
	defer rows.Close()

	var images []models.AdImage
	for rows.Next() {
		var img models.AdImage
		if err := rows.Scan(&img.ID, &img.AdID, &img.Path, &img.ImageURL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ad image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ad images: %w", err)
	}
	return images, nil
}

// InsertBatch records a batch of uploaded images in one round-trip
func (r *AdImageRepository) InsertBatch(ctx context.Context, inserts []models.AdImageInsert) error {
	if len(inserts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	now := time.Now().UTC()
	for _, ins := range inserts {
		batch.Queue(`
			INSERT INTO ad_images (id, ad_id, path, image_url, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), ins.AdID, ins.Path, ins.ImageURL, now)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range inserts {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert ad image: %w", err)
		}
	}
	return nil
}

// DeleteByAdID deletes all image rows for an ad
func (r *AdImageRepository) DeleteByAdID(ctx context.Context, adID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ad_images WHERE ad_id = $1`, adID)
	if err != nil {
		return fmt.Errorf("failed to delete ad images: %w", err)
	}
	return nil
}
