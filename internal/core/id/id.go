// Package id provides entity identifiers based on UUIDv7.
// UUIDv7 is time-ordered which keeps btree indexes compact.
package id

import "github.com/google/uuid"

// ID is the identifier type used by all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 identifier.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source is broken; fall back to v4
		return uuid.New()
	}
	return v7
}

// Parse parses an ID from string.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse parses an ID from string, panicking on error. Test helper.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil is the zero ID.
var Nil = uuid.Nil

// IsNil reports whether the ID is the zero value.
func IsNil(i ID) bool {
	return i == uuid.Nil
}
