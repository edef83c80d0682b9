package domain

import (
	"time"

	"github.com/google/uuid"
)

// Paddock represents a named physical enclosure (pasture) where animals are
// kept. Name is the business key and is unique case-insensitively; the UUID
// exists so location events can reference a paddock across renames.
type Paddock struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// AreaHa is the paddock area in hectares. Nil when unknown; positive when set.
	AreaHa *float64 `json:"area_ha,omitempty"`
	// Capacity is the nominal head count the paddock supports. Nil when unknown.
	Capacity *int   `json:"capacity,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Notes    string `json:"notes,omitempty"`
	// Active is false for paddocks that were retired instead of deleted
	// (deletion is blocked while any animal has an open event there).
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
