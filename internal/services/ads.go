package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/repository"

	"github.com/google/uuid"
)

// AdStore is the ad row storage the service runs on
type AdStore interface {
	Search(ctx context.Context, q repository.AdQuery) ([]models.Ad, error)
	ListByOwner(ctx context.Context, userID string, limit int) ([]models.Ad, error)
	ListByIDs(ctx context.Context, ids []string, activeOnly bool) ([]models.Ad, error)
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	Create(ctx context.Context, ad *models.Ad) error
	Update(ctx context.Context, id string, upd models.AdUpdate) (*models.Ad, error)
	Delete(ctx context.Context, id string) error
}

// AdImageStore is the ad image row storage the service runs on
type AdImageStore interface {
	ListByAdIDs(ctx context.Context, adIDs []string) ([]models.AdImage, error)
	InsertBatch(ctx context.Context, inserts []models.AdImageInsert) error
	DeleteByAdID(ctx context.Context, adID string) error
}

// ObjectStore is the image blob storage the service runs on
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Remove(ctx context.Context, paths []string) error
	ResolveImageURL(img models.AdImage) (string, bool)
	ExtractStoragePath(img models.AdImage) (string, bool)
}

// AdService handles ad-related business logic: feed queries joined with a
// cover image, detail hydration, and the create/replace/delete sequences
// that keep image rows and storage objects together.
type AdService struct {
	ads    AdStore
	images AdImageStore
	store  ObjectStore
}

// NewAdService creates a new ad service
func NewAdService(ads AdStore, images AdImageStore, store ObjectStore) *AdService {
	return &AdService{
		ads:    ads,
		images: images,
		store:  store,
	}
}

// Feed retrieves active ads matching the query, newest first, each joined
// with its resolved cover image URL
func (s *AdService) Feed(ctx context.Context, q repository.AdQuery) ([]models.AdWithCover, error) {
	ads, err := s.ads.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return s.joinCovers(ctx, ads)
}

// MyAds retrieves all ads owned by the caller regardless of active state
func (s *AdService) MyAds(ctx context.Context, userID string, limit int) ([]models.AdWithCover, error) {
	ads, err := s.ads.ListByOwner(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch my ads: %w", err)
	}
	return s.joinCovers(ctx, ads)
}

// AdsByIDs hydrates a set of ad ids into ads with cover images. An empty id
// set yields an empty result without a backend call.
func (s *AdService) AdsByIDs(ctx context.Context, ids []string, activeOnly bool) ([]models.AdWithCover, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ads, err := s.ads.ListByIDs(ctx, ids, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ads by ids: %w", err)
	}
	return s.joinCovers(ctx, ads)
}

// Detail retrieves one ad with all of its resolved image URLs, or nil when
// no ad matches the id.
func (s *AdService) Detail(ctx context.Context, adID string) (*models.AdDetail, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ad detail: %w", err)
	}

	images, err := s.images.ListByAdIDs(ctx, []string{adID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ad images: %w", err)
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		if url, ok := s.store.ResolveImageURL(img); ok {
			urls = append(urls, url)
		}
	}
	return &models.AdDetail{Ad: *ad, ImageURLs: urls}, nil
}

// Create inserts the ad row, then uploads each image and records one image
// row per upload. Image uploads are best-effort: a failure mid-batch leaves
// already-uploaded objects in place and surfaces the error.
func (s *AdService) Create(ctx context.Context, ins models.AdInsert, uploads []models.ImageUpload) (*models.Ad, error) {
	active := true
	if ins.IsActive != nil {
		active = *ins.IsActive
	}

	ad := &models.Ad{
		ID:                uuid.New().String(),
		UserID:            ins.UserID,
		Title:             ins.Title,
		Category:          ins.Category,
		City:              ins.City,
		Description:       ins.Description,
		Breed:             ins.Breed,
		Gender:            ins.Gender,
		Price:             int64Flex(ins.Price),
		Age:               floatFlex(ins.Age),
		Weight:            floatFlex(ins.Weight),
		IsVaccinated:      ins.IsVaccinated,
		DeliveryAvailable: ins.DeliveryAvailable,
		Phone:             ins.Phone,
		IsActive:          active,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, fmt.Errorf("failed to create ad: %w", err)
	}

	if len(uploads) > 0 {
		if err := s.uploadImages(ctx, ad.ID, uploads); err != nil {
			return nil, err
		}
	}
	return ad, nil
}

// Update applies only the provided fields; returns nil when the id matches no ad
func (s *AdService) Update(ctx context.Context, adID string, upd models.AdUpdate) (*models.Ad, error) {
	ad, err := s.ads.Update(ctx, adID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	return ad, nil
}

// SetActive toggles feed visibility for an ad
func (s *AdService) SetActive(ctx context.Context, adID string, active bool) (*models.Ad, error) {
	return s.Update(ctx, adID, models.AdUpdate{IsActive: &active})
}

// ReplaceImages removes every stored image of the ad, objects before rows,
// then runs the same upload-and-record sequence as Create
func (s *AdService) ReplaceImages(ctx context.Context, adID string, uploads []models.ImageUpload) error {
	if err := s.removeImages(ctx, adID); err != nil {
		return err
	}
	if len(uploads) > 0 {
		return s.uploadImages(ctx, adID, uploads)
	}
	return nil
}

// Delete removes an ad and everything hanging off it: storage objects first,
// then image rows, then the ad row, so an interruption cannot leave rows
// pointing at deleted parents.
func (s *AdService) Delete(ctx context.Context, adID string) error {
	if err := s.removeImages(ctx, adID); err != nil {
		return err
	}
	if err := s.ads.Delete(ctx, adID); err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	return nil
}

// joinCovers pairs each ad with the first resolvable image URL among its
// images, grouped in one batch query
func (s *AdService) joinCovers(ctx context.Context, ads []models.Ad) ([]models.AdWithCover, error) {
	if len(ads) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}

	images, err := s.images.ListByAdIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ad images: %w", err)
	}

	covers := make(map[string]string, len(ads))
	for _, img := range images {
		if _, ok := covers[img.AdID]; ok {
			continue
		}
		if url, ok := s.store.ResolveImageURL(img); ok {
			covers[img.AdID] = url
		}
	}

	result := make([]models.AdWithCover, 0, len(ads))
	for _, ad := range ads {
		item := models.AdWithCover{Ad: ad}
		if url, ok := covers[ad.ID]; ok {
			cover := url
			item.CoverURL = &cover
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *AdService) uploadImages(ctx context.Context, adID string, uploads []models.ImageUpload) error {
	inserts := make([]models.AdImageInsert, 0, len(uploads))
	for _, upload := range uploads {
		path := fmt.Sprintf("%s/%s.%s", adID, uuid.New().String(), extensionForMIME(upload.ContentType))
		if err := s.store.Upload(ctx, path, upload.Data, upload.ContentType); err != nil {
			return fmt.Errorf("failed to upload ad image: %w", err)
		}
		inserts = append(inserts, models.AdImageInsert{AdID: adID, Path: path})
	}
	if err := s.images.InsertBatch(ctx, inserts); err != nil {
		return fmt.Errorf("failed to record ad images: %w", err)
	}
	return nil
}

func (s *AdService) removeImages(ctx context.Context, adID string) error {
	images, err := s.images.ListByAdIDs(ctx, []string{adID})
	if err != nil {
		return fmt.Errorf("failed to fetch ad images: %w", err)
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		if path, ok := s.store.ExtractStoragePath(img); ok {
			paths = append(paths, path)
		}
	}
	if err := s.store.Remove(ctx, paths); err != nil {
		return fmt.Errorf("failed to delete image objects: %w", err)
	}
	if err := s.images.DeleteByAdID(ctx, adID); err != nil {
		return fmt.Errorf("failed to delete image rows: %w", err)
	}
	return nil
}

func extensionForMIME(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/jpeg", "image/jpg":
		return "jpg"
	default:
		return "jpg"
	}
}

func int64Flex(v *int64) models.FlexString {
	if v == nil {
		return ""
	}
	return models.FlexString(strconv.FormatInt(*v, 10))
}

func floatFlex(v *float64) models.FlexString {
	if v == nil {
		return ""
	}
	return models.FlexString(strconv.FormatFloat(*v, 'f', -1, 64))
}
