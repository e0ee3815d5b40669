package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/repository"
)

// ProfileStore is the profile row storage the service runs on
type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, upsert models.ProfileUpsert) (*models.Profile, error)
}

// ProfileService handles user profile records
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get retrieves a profile by user id, or nil when none exists
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return profile, nil
}

// Upsert inserts or updates the profile keyed by its id
func (s *ProfileService) Upsert(ctx context.Context, upsert models.ProfileUpsert) (*models.Profile, error) {
	if upsert.ID == "" {
		return nil, fmt.Errorf("profile id is required")
	}
	profile, err := s.profiles.Upsert(ctx, upsert)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return profile, nil
}
