package services

import (
	"context"
	"testing"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFavoriteStore struct {
	rows []models.Favorite
}

func (f *fakeFavoriteStore) ListAdIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			ids = append(ids, f.rows[i].AdID)
		}
	}
	return ids, nil
}

func (f *fakeFavoriteStore) Exists(ctx context.Context, userID, adID string) (bool, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.AdID == adID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavoriteStore) Insert(ctx context.Context, fav *models.Favorite) error {
	f.rows = append(f.rows, *fav)
	return nil
}

func (f *fakeFavoriteStore) Delete(ctx context.Context, userID, adID string) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID != userID || row.AdID != adID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

type recordingHydrator struct {
	lastIDs        []string
	lastActiveOnly bool
}

func (r *recordingHydrator) AdsByIDs(ctx context.Context, ids []string, activeOnly bool) ([]models.AdWithCover, error) {
	r.lastIDs = ids
	r.lastActiveOnly = activeOnly
	out := make([]models.AdWithCover, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.AdWithCover{Ad: models.Ad{ID: id, IsActive: true}})
	}
	return out, nil
}

func TestToggleAlternates(t *testing.T) {
	store := &fakeFavoriteStore{}
	svc := NewFavoriteService(store, &recordingHydrator{})
	ctx := context.Background()

	favorited, err := svc.Toggle(ctx, "user-1", "ad-1")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Len(t, store.rows, 1)

	favorited, err = svc.Toggle(ctx, "user-1", "ad-1")
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, store.rows)

	favorited, err = svc.Toggle(ctx, "user-1", "ad-1")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Len(t, store.rows, 1)
}

func TestToggleIsScopedPerPair(t *testing.T) {
	store := &fakeFavoriteStore{}
	svc := NewFavoriteService(store, &recordingHydrator{})
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", "ad-1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "user-1", "ad-2")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "user-2", "ad-1")
	require.NoError(t, err)

	assert.Len(t, store.rows, 3)

	ids, err := svc.FavoriteAdIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ad-1", "ad-2"}, ids)
}

func TestFavoritesHydratesActiveOnly(t *testing.T) {
	store := &fakeFavoriteStore{}
	hydrator := &recordingHydrator{}
	svc := NewFavoriteService(store, hydrator)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", "ad-1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "user-1", "ad-2")
	require.NoError(t, err)

	favs, err := svc.Favorites(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, favs, 2)
	assert.True(t, hydrator.lastActiveOnly)
	assert.ElementsMatch(t, []string{"ad-1", "ad-2"}, hydrator.lastIDs)
}

func TestFavoritesEmptyForNewUser(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteStore{}, &recordingHydrator{})

	favs, err := svc.Favorites(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, favs)
}
