package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adColumns = `id, user_id, title, category, city, description, breed, gender,
	price_pkr, age, weight, is_vaccinated, delivery_available, phone, is_active, created_at`

// AdQuery holds the public feed filters
type AdQuery struct {
	Search   string
	Category string
	City     string
	Limit    int
}

// AdRepository handles database operations for ads
type AdRepository struct {
	db *pgxpool.Pool
}

// NewAdRepository creates a new ad repository
func NewAdRepository(db *pgxpool.Pool) *AdRepository {
	return &AdRepository{db: db}
}

// Search retrieves active ads matching the feed filters, newest first
func (r *AdRepository) Search(ctx context.Context, q AdQuery) ([]models.Ad, error) {
	where := []string{"is_active = TRUE"}
	args := []any{}

	if category := strings.TrimSpace(q.Category); category != "" {
		args = append(args, "%"+category+"%")
		where = append(where, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if city := strings.TrimSpace(q.City); city != "" {
		args = append(args, city)
		where = append(where, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR breed ILIKE $%d)", n, n, n))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, adColumns, strings.Join(where, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search ads: %w", err)
	}
	defer rows.Close()

	return scanAds(rows)
}

// ListByOwner retrieves all ads owned by a user regardless of active state, newest first
func (r *AdRepository) ListByOwner(ctx context.Context, userID string, limit int) ([]models.Ad, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, adColumns)

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads by owner: %w", err)
	}
	defer rows.Close()

	return scanAds(rows)
}

// ListByIDs retrieves ads by id set, newest first. An empty id set yields an
// empty result without touching the database.
func (r *AdRepository) ListByIDs(ctx context.Context, ids []string, activeOnly bool) ([]models.Ad, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		WHERE id = ANY($1)
	`, adColumns)
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads by ids: %w", err)
	}
	defer rows.Close()

	return scanAds(rows)
}

// GetByID retrieves an ad by ID
func (r *AdRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM ads
		WHERE id = $1
	`, adColumns)

	var ad models.Ad
	err := r.db.QueryRow(ctx, query, id).Scan(adFields(&ad)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}
	return &ad, nil
}

// Create creates a new ad
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	query := `
		INSERT INTO ads (id, user_id, title, category, city, description, breed, gender,
			price_pkr, age, weight, is_vaccinated, delivery_available, phone, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.Exec(ctx, query,
		ad.ID, ad.UserID, ad.Title, ad.Category, ad.City, ad.Description, ad.Breed, ad.Gender,
		string(ad.Price), string(ad.Age), string(ad.Weight),
		ad.IsVaccinated, ad.DeliveryAvailable, ad.Phone, ad.IsActive, ad.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// Update applies only the provided fields and returns the updated row,
// or ErrNotFound when no row matches.
func (r *AdRepository) Update(ctx context.Context, id string, upd models.AdUpdate) (*models.Ad, error) {
	query := fmt.Sprintf(`
		UPDATE ads SET
			title = COALESCE($2, title),
			category = COALESCE($3, category),
			city = COALESCE($4, city),
			description = COALESCE($5, description),
			breed = COALESCE($6, breed),
			gender = COALESCE($7, gender),
			price_pkr = COALESCE($8, price_pkr),
			age = COALESCE($9, age),
			weight = COALESCE($10, weight),
			is_vaccinated = COALESCE($11, is_vaccinated),
			delivery_available = COALESCE($12, delivery_available),
			phone = COALESCE($13, phone),
			is_active = COALESCE($14, is_active)
		WHERE id = $1
		RETURNING %s
	`, adColumns)

	var ad models.Ad
	err := r.db.QueryRow(ctx, query, id,
		upd.Title, upd.Category, upd.City, upd.Description, upd.Breed, upd.Gender,
		int64Text(upd.Price), floatText(upd.Age), floatText(upd.Weight),
		upd.IsVaccinated, upd.DeliveryAvailable, upd.Phone, upd.IsActive,
	).Scan(adFields(&ad)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	return &ad, nil
}

// Delete deletes an ad row by ID
func (r *AdRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	return nil
}

// adFields returns scan destinations in adColumns order
func adFields(ad *models.Ad) []any {
	return []any{
		&ad.ID, &ad.UserID, &ad.Title, &ad.Category, &ad.City, &ad.Description,
		&ad.Breed, &ad.Gender, &ad.Price, &ad.Age, &ad.Weight,
		&ad.IsVaccinated, &ad.DeliveryAvailable, &ad.Phone, &ad.IsActive, &ad.CreatedAt,
	}
}

func scanAds(rows pgx.Rows) ([]models.Ad, error) {
	var ads []models.Ad
	for rows.Next() {
		var ad models.Ad
		if err := rows.Scan(adFields(&ad)...); err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ads: %w", err)
	}
	return ads, nil
}

// int64Text renders an optional numeric field into the text column shape,
// keeping nil as NULL so COALESCE preserves the stored value.
func int64Text(v *int64) any {
	if v == nil {
		return nil
	}
	return strconv.FormatInt(*v, 10)
}

func floatText(v *float64) any {
	if v == nil {
		return nil
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
