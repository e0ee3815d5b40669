package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, first_name, last_name, email, phone, dob, city, push_token, created_at, updated_at`

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by user ID
func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM profiles
		WHERE id = $1
	`, profileColumns)

	var p models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.DOB, &p.City,
		&p.PushToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Upsert inserts or updates a profile by primary key. Nil fields keep the
// stored value on update and default to empty on insert.
func (r *ProfileRepository) Upsert(ctx context.Context, upsert models.ProfileUpsert) (*models.Profile, error) {
	query := fmt.Sprintf(`
		INSERT INTO profiles (id, first_name, last_name, email, phone, dob, city, push_token, created_at, updated_at)
		VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''),
			COALESCE($6, ''), COALESCE($7, ''), $8, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			first_name = COALESCE($2, profiles.first_name),
			last_name = COALESCE($3, profiles.last_name),
			email = COALESCE($4, profiles.email),
			phone = COALESCE($5, profiles.phone),
			dob = COALESCE($6, profiles.dob),
			city = COALESCE($7, profiles.city),
			push_token = COALESCE($8, profiles.push_token),
			updated_at = now()
		RETURNING %s
	`, profileColumns)

	var p models.Profile
	err := r.db.QueryRow(ctx, query,
		upsert.ID, upsert.FirstName, upsert.LastName, upsert.Email,
		upsert.Phone, upsert.DOB, upsert.City, upsert.PushToken,
	).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.DOB, &p.City,
		&p.PushToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &p, nil
}
