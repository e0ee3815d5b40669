package storage

import (
	"strings"

	"github.com/Huzaifa084/HalalClassified/internal/models"
)

// ResolveImageURL turns a stored image record into a fetchable URL. The
// explicit URL field wins over the path; values already carrying a URL
// scheme pass through unchanged; anything else is treated as a
// bucket-relative path, with a redundant bucket-name prefix stripped.
func (s *ObjectStore) ResolveImageURL(img models.AdImage) (string, bool) {
	raw := strings.TrimSpace(img.ImageURL)
	if raw == "" {
		raw = strings.TrimSpace(img.Path)
	}
	if raw == "" {
		return "", false
	}
	if hasURLScheme(raw) {
		return raw, true
	}
	return s.PublicURL(s.stripBucketPrefix(raw)), true
}

// ExtractStoragePath reverses ResolveImageURL for deletion: it yields the
// bucket-relative path behind a stored value, or reports false when an
// absolute URL does not point into this bucket.
func (s *ObjectStore) ExtractStoragePath(img models.AdImage) (string, bool) {
	raw := strings.TrimSpace(img.Path)
	if raw == "" {
		raw = strings.TrimSpace(img.ImageURL)
	}
	if raw == "" {
		return "", false
	}
	if hasURLScheme(raw) {
		marker := "/" + s.bucket + "/"
		i := strings.Index(raw, marker)
		if i < 0 {
			return "", false
		}
		return strings.TrimLeft(raw[i+len(marker):], "/"), true
	}
	return s.stripBucketPrefix(raw), true
}

func (s *ObjectStore) stripBucketPrefix(raw string) string {
	normalized := strings.TrimLeft(raw, "/")
	return strings.TrimPrefix(normalized, s.bucket+"/")
}

func hasURLScheme(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
