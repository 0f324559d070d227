package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength is the longest node or edge id accepted at the boundary.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node or edge id received from a data source.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only ids
//   - No control characters
//   - Maximum length of 256 bytes
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidNodeID, "id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "id contains invalid control characters")
		}
	}
	return nil
}

// ValidateSize validates canvas dimensions. Both must be positive finite
// numbers; callers that floor the height do so before validating.
func ValidateSize(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidSize, "canvas size must be positive, got %vx%v", width, height)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}

	return nil
}

// ValidateMongoURI checks that uri uses a MongoDB connection scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidSource, "MongoDB URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidSource, "MongoDB URI must use mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}
