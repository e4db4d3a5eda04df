// Package uuid generates the time-ordered identifiers used for game
// sessions, registry entries and log rows.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. UUIDv7 is time-ordered, so rows created in
// the same game sort by creation. It falls back to a random v4 if the
// clock-sequence source fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	return googleuuid.Validate(s) == nil
}
