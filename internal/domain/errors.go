package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// animal, paddock, or event does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, duplicate paddock name,
// movement date before the open interval's entry date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrOccupied is returned when a paddock cannot be deleted because at least
// one animal still has an open location event there.
// Handlers should map this to HTTP 409 Conflict.
var ErrOccupied = errors.New("paddock occupied")

// ErrNoOpTransfer is returned when a transfer names the animal's current
// location as the destination. Rejecting it keeps the event history free of
// redundant intervals. Handlers should map this to HTTP 409 Conflict.
var ErrNoOpTransfer = errors.New("animal already at this location")

// ErrConflict is returned when a concurrent transfer for the same animal won
// the race (the one-open-event unique index fired). The caller may retry.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("concurrent transfer conflict")
