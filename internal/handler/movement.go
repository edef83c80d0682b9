package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/service"
)

// transferRequest is the body of POST /movements.
type transferRequest struct {
	AnimalID           string `json:"animal_id"`
	DestinationPaddock string `json:"destination_paddock"`
	MovementDate       string `json:"movement_date"` // YYYY-MM-DD
	Reason             string `json:"reason"`
	Notes              string `json:"notes"`
}

// batchTransferRequest is the body of POST /movements/batch.
type batchTransferRequest struct {
	AnimalIDs          []string `json:"animal_ids"`
	DestinationPaddock string   `json:"destination_paddock"`
	MovementDate       string   `json:"movement_date"` // YYYY-MM-DD
	Reason             string   `json:"reason"`
	Notes              string   `json:"notes"`
}

// recordTransfer handles POST /movements.
func (s *Server) recordTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		badRequest(w, "animal_id must be a UUID")
		return
	}
	movementDate, ok := dateParam(w, req.MovementDate, "movement_date")
	if !ok {
		return
	}

	event, err := s.movements.Transfer(r.Context(), service.TransferInput{
		AnimalID:     animalID,
		PaddockName:  req.DestinationPaddock,
		MovementDate: movementDate,
		Reason:       req.Reason,
		Notes:        req.Notes,
		RecordedBy:   actorFrom(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// batchTransfer handles POST /movements/batch.
//
// The reply is 200 even when some animals were rejected: partial failure is
// embedded in the payload and callers inspect failed_count. Per-item
// progress driven by actual completion is logged at debug level.
func (s *Server) batchTransfer(w http.ResponseWriter, r *http.Request) {
	var req batchTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}

	animalIDs := make([]uuid.UUID, 0, len(req.AnimalIDs))
	for _, raw := range req.AnimalIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "animal_ids must be UUIDs")
			return
		}
		animalIDs = append(animalIDs, id)
	}
	movementDate, ok := dateParam(w, req.MovementDate, "movement_date")
	if !ok {
		return
	}

	progress := func(done, total int) {
		s.log.DebugContext(r.Context(), "batch transfer progress",
			"done", done, "total", total, "paddock", req.DestinationPaddock)
	}

	result, err := s.batches.MoveMany(r.Context(), domain.BatchMoveRequest{
		AnimalIDs:    animalIDs,
		PaddockName:  req.DestinationPaddock,
		MovementDate: movementDate,
		Reason:       req.Reason,
		Notes:        req.Notes,
	}, actorFrom(r), progress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// listEvents handles GET /location-events with optional animal_id, paddock,
// and since query parameters.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	var filter domain.EventFilter

	if raw := r.URL.Query().Get("animal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "animal_id must be a UUID")
			return
		}
		filter.AnimalID = &id
	}
	filter.PaddockName = r.URL.Query().Get("paddock")
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			badRequest(w, "since must be YYYY-MM-DD")
			return
		}
		filter.Since = &t
	}

	events, err := s.locations.ListEvents(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// actorFrom returns the acting user for recorded_by. Authentication is
// handled upstream; the gateway forwards the identity in X-Actor.
func actorFrom(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		return actor
	}
	return "system"
}

// dateParam parses a required YYYY-MM-DD field, replying 400 when malformed.
// Empty input passes through as the zero time so the service layer owns the
// "required" rule.
func dateParam(w http.ResponseWriter, raw, field string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		badRequest(w, field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
