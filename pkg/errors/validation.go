package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds entity identifiers. Generated anchor ids embed the room
// id, so ids must stay printable and reasonably short.
const maxIDLength = 256

// ValidateEntityID validates an entity identifier from a venue file.
// Empty ids are allowed (doors and some rooms carry only a name); callers
// that require an id check for emptiness themselves.
//
// The rules:
//   - Maximum length of 256 characters
//   - No control characters or null bytes
//   - No whitespace (ids are used in XML attributes and DOT node names)
func ValidateEntityID(id string) error {
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidVenue, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidVenue, "id %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidVenue, "id %q contains whitespace", id)
		}
	}
	return nil
}

// ValidateFinite rejects NaN and infinite coordinates. The name is used in
// the error message only (e.g. "rooms[2].w").
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidVenue, "%s must be a finite number", name)
	}
	return nil
}

// ValidateOutputPath validates a destination path for generated artifacts.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
