package domain

import (
	"time"

	"github.com/google/uuid"
)

// BatchMoveRequest moves a set of animals to one destination paddock on one
// date. Reason and Notes apply to every resulting event.
type BatchMoveRequest struct {
	AnimalIDs    []uuid.UUID `json:"animal_ids"`
	PaddockName  string      `json:"paddock_name"`
	MovementDate time.Time   `json:"movement_date"`
	Reason       string      `json:"reason,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// Rejection kinds used in BatchMoveResult. These are wire-level strings, not
// Go errors — the handler never needs to re-classify per-item failures.
const (
	RejectKindValidation   = "validation"
	RejectKindNotFound     = "not_found"
	RejectKindNoOpTransfer = "no_op_transfer"
	RejectKindConflict     = "conflict"
	RejectKindInternal     = "internal"
)

// AcceptedMove records one animal that was moved, with the event that now
// holds its open interval.
type AcceptedMove struct {
	AnimalID uuid.UUID `json:"animal_id"`
	EventID  uuid.UUID `json:"event_id"`
}

// RejectedMove records one animal that could not be moved and why.
type RejectedMove struct {
	AnimalID uuid.UUID `json:"animal_id"`
	Kind     string    `json:"error_kind"`
	Message  string    `json:"message"`
}

// BatchMoveResult is the partial-failure report for a batch move. It is a
// response value, never persisted. Every requested animal appears in exactly
// one of Accepted/Rejected, so SucceededCount+FailedCount == Total.
type BatchMoveResult struct {
	Accepted       []AcceptedMove `json:"accepted"`
	Rejected       []RejectedMove `json:"rejected"`
	Total          int            `json:"total"`
	SucceededCount int            `json:"succeeded_count"`
	FailedCount    int            `json:"failed_count"`
}
