package services

import (
	"strings"

	"github.com/google/uuid"
)

// normalizeID trims an identifier and reports whether it parses as a UUID.
// Malformed ids can never match a stored row, so callers treat them as missing.
func normalizeID(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return id, false
	}
	return id, true
}
