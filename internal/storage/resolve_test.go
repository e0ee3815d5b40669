package storage

import (
	"testing"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/stretchr/testify/assert"
)

func testStore() *ObjectStore {
	return &ObjectStore{bucket: "ad-images", region: "ap-south-1"}
}

func TestResolveImageURLFromBareRelativePath(t *testing.T) {
	store := testStore()

	url, ok := store.ResolveImageURL(models.AdImage{Path: "cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, "https://ad-images.s3.ap-south-1.amazonaws.com/cow1.jpg", url)
}

func TestResolveImageURLStripsBucketPrefix(t *testing.T) {
	store := testStore()

	bare, _ := store.ResolveImageURL(models.AdImage{Path: "cow1.jpg"})
	prefixed, ok := store.ResolveImageURL(models.AdImage{Path: "ad-images/cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, bare, prefixed)

	slashed, ok := store.ResolveImageURL(models.AdImage{Path: "/ad-images/cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, bare, slashed)
}

func TestResolveImageURLPassesAbsoluteURLThrough(t *testing.T) {
	store := testStore()

	url, ok := store.ResolveImageURL(models.AdImage{ImageURL: "https://cdn.example.com/a/b.jpg"})
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/a/b.jpg", url)
}

func TestResolveImageURLPrefersExplicitURLOverPath(t *testing.T) {
	store := testStore()

	url, ok := store.ResolveImageURL(models.AdImage{
		ImageURL: "https://cdn.example.com/explicit.jpg",
		Path:     "cow1.jpg",
	})
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/explicit.jpg", url)
}

func TestResolveImageURLEmptyRecord(t *testing.T) {
	_, ok := testStore().ResolveImageURL(models.AdImage{})
	assert.False(t, ok)
}

func TestResolveImageURLWithPublicBase(t *testing.T) {
	store := &ObjectStore{bucket: "ad-images", publicBaseURL: "https://storage.example.com"}

	url, ok := store.ResolveImageURL(models.AdImage{Path: "cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, "https://storage.example.com/ad-images/cow1.jpg", url)
}

func TestExtractStoragePathFromAbsoluteURL(t *testing.T) {
	store := testStore()

	path, ok := store.ExtractStoragePath(models.AdImage{
		ImageURL: "https://storage.example.com/object/public/ad-images/cow1.jpg",
	})
	assert.True(t, ok)
	assert.Equal(t, "cow1.jpg", path)
}

func TestExtractStoragePathForeignURLNotGuessed(t *testing.T) {
	store := testStore()

	_, ok := store.ExtractStoragePath(models.AdImage{
		ImageURL: "https://cdn.example.com/somewhere/else.jpg",
	})
	assert.False(t, ok)
}

func TestExtractStoragePathRelativeValues(t *testing.T) {
	store := testStore()

	path, ok := store.ExtractStoragePath(models.AdImage{Path: "ad-images/cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, "cow1.jpg", path)

	path, ok = store.ExtractStoragePath(models.AdImage{Path: "abc123/cow1.jpg"})
	assert.True(t, ok)
	assert.Equal(t, "abc123/cow1.jpg", path)
}

func TestExtractStoragePathPrefersPathOverURL(t *testing.T) {
	store := testStore()

	path, ok := store.ExtractStoragePath(models.AdImage{
		Path:     "abc/cow1.jpg",
		ImageURL: "https://cdn.example.com/no-bucket-here.jpg",
	})
	assert.True(t, ok)
	assert.Equal(t, "abc/cow1.jpg", path)
}
