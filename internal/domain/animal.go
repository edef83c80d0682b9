// Package domain contains the core data types for the Herdlog location engine.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Animal is the engine's read-mostly mirror of the external animal registry.
// Only the fields the location engine needs are carried: identity, the
// normalized legacy fallback location, and the registration date that feeds
// the resolver's fallback entry date. Sex and breed are display-only.
type Animal struct {
	ID      uuid.UUID `json:"id"`
	EarTag  string    `json:"ear_tag"`
	Name    string    `json:"name,omitempty"`
	Sex     string    `json:"sex,omitempty"`
	Breed   string    `json:"breed,omitempty"`
	// LegacyPaddock is the non-event-sourced location attribute carried over
	// from bulk import. Empty means the animal never had one. The historical
	// field-name variants are collapsed into this single field at ingest.
	LegacyPaddock string     `json:"legacy_paddock,omitempty"`
	RegisteredAt  *time.Time `json:"registered_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
