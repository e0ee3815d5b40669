package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/google/uuid"
)

// FavoriteStore is the favorite row storage the service runs on
type FavoriteStore interface {
	ListAdIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, adID string) (bool, error)
	Insert(ctx context.Context, fav *models.Favorite) error
	Delete(ctx context.Context, userID, adID string) error
}

// AdHydrator turns ad id sets into ads with cover images
type AdHydrator interface {
	AdsByIDs(ctx context.Context, ids []string, activeOnly bool) ([]models.AdWithCover, error)
}

// FavoriteService tracks which ads a user has saved
type FavoriteService struct {
	favorites FavoriteStore
	ads       AdHydrator

	// toggles for the same (user, ad) pair are serialized locally; the
	// unique index on favorites backstops races across processes
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites FavoriteStore, ads AdHydrator) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		ads:       ads,
		locks:     make(map[string]*sync.Mutex),
	}
}

// FavoriteAdIDs retrieves the ids of the user's saved ads for fast
// membership checks in feed rendering
func (s *FavoriteService) FavoriteAdIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.favorites.ListAdIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorite ids: %w", err)
	}
	return ids, nil
}

// Favorites retrieves the user's saved ads hydrated with cover images,
// active ads only
func (s *FavoriteService) Favorites(ctx context.Context, userID string) ([]models.AdWithCover, error) {
	ids, err := s.FavoriteAdIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ads.AdsByIDs(ctx, ids, true)
}

// Toggle flips membership for the (user, ad) pair and reports the new
// state: true when the ad is now favorited.
func (s *FavoriteService) Toggle(ctx context.Context, userID, adID string) (bool, error) {
	lock := s.pairLock(userID, adID)
	lock.Lock()
	defer lock.Unlock()

	exists, err := s.favorites.Exists(ctx, userID, adID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	if exists {
		if err := s.favorites.Delete(ctx, userID, adID); err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}

	fav := &models.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		AdID:      adID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.favorites.Insert(ctx, fav); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

func (s *FavoriteService) pairLock(userID, adID string) *sync.Mutex {
	key := userID + "\x00" + adID
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
