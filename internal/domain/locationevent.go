package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationEvent is one interval during which an animal was assigned to a
// paddock. ExitDate is nil while the interval is open — the open interval is
// the animal's current location. For any animal at most one event is open at
// a time; the movement recorder closes the prior open event in the same
// transaction that opens the next one.
type LocationEvent struct {
	ID       uuid.UUID `json:"id"`
	AnimalID uuid.UUID `json:"animal_id"`
	// PaddockID references the live paddock row and is nil once the paddock
	// has been deleted. PaddockName is captured at write time, so closed
	// history keeps its name even after the paddock row is gone.
	PaddockID   *uuid.UUID `json:"paddock_id,omitempty"`
	PaddockName string     `json:"paddock_name"`
	EntryDate   time.Time  `json:"entry_date"`
	ExitDate    *time.Time `json:"exit_date,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	RecordedBy  string     `json:"recorded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Open reports whether the event is the animal's current location.
func (e LocationEvent) Open() bool {
	return e.ExitDate == nil
}

// EventFilter narrows a location-event listing. Zero-valued fields are
// ignored. Since matches events whose entry_date is on or after the date.
type EventFilter struct {
	AnimalID    *uuid.UUID
	PaddockName string
	Since       *time.Time
}
