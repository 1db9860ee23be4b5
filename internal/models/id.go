package models

import "github.com/google/uuid"

// NewID builds record identifiers like "prod-3f9a07c1": a kind prefix plus the
// first 8 hex characters of a random UUID. The truncation leaves a small
// collision probability, accepted for catalog-sized collections.
func NewID(kind string) string {
	return kind + "-" + uuid.New().String()[:8]
}
