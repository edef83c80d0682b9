package domain

import "time"

// LocationSource says which step of the resolver chain produced a
// CurrentLocation.
type LocationSource string

const (
	// LocationSourceEvent means the location came from a location event row
	// (the open interval, or the most recent event for un-migrated history).
	LocationSourceEvent LocationSource = "event"
	// LocationSourceFallback means the location came from the legacy field
	// stored directly on the animal record by bulk import.
	LocationSourceFallback LocationSource = "fallback"
)

// CurrentLocation is the resolver's answer for one animal. It is derived,
// never stored. A nil *CurrentLocation means "no location" — a valid state
// for newly registered or never-placed animals, not an error.
type CurrentLocation struct {
	PaddockName string         `json:"paddock_name"`
	EntryDate   *time.Time     `json:"entry_date,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Source      LocationSource `json:"source"`
}
