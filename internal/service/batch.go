package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pcamargo/herdlog/internal/domain"
)

// Recorder is the single-transfer dependency of the batch mover. Defining
// the interface here (in the consumer) lets batch tests inject a mock
// without a database. *MovementService satisfies it.
type Recorder interface {
	Transfer(ctx context.Context, in TransferInput) (domain.LocationEvent, error)
}

// ProgressFunc is called after each animal in a batch is processed, with the
// number processed so far and the batch total. It is an observability
// signal for progress indicators, not a cancellation point.
type ProgressFunc func(done, total int)

// BatchService moves many animals to one destination in a single request.
// Each animal goes through the movement recorder independently; one
// animal's failure never aborts the rest. The batch as a whole is not
// atomic — partially applied batches are an accepted trade-off favoring
// throughput over all-or-nothing semantics.
type BatchService struct {
	recorder Recorder
}

// NewBatchService constructs a BatchService on the given recorder.
func NewBatchService(recorder Recorder) *BatchService {
	return &BatchService{recorder: recorder}
}

// MoveMany processes the batch and returns the partial-failure report.
//
// A structurally invalid request (no animals, no paddock, no date) fails
// wholesale with domain.ErrValidation and performs no writes. Otherwise the
// returned error is always nil: per-animal failures land in Rejected and the
// caller inspects FailedCount. progress may be nil.
func (s *BatchService) MoveMany(ctx context.Context, req domain.BatchMoveRequest, actor string, progress ProgressFunc) (domain.BatchMoveResult, error) {
	if err := validateBatch(req); err != nil {
		return domain.BatchMoveResult{}, err
	}

	result := domain.BatchMoveResult{
		Accepted: []domain.AcceptedMove{},
		Rejected: []domain.RejectedMove{},
		Total:    len(req.AnimalIDs),
	}

	for i, animalID := range req.AnimalIDs {
		event, err := s.recorder.Transfer(ctx, TransferInput{
			AnimalID:     animalID,
			PaddockName:  req.PaddockName,
			MovementDate: req.MovementDate,
			Reason:       req.Reason,
			Notes:        req.Notes,
			RecordedBy:   actor,
		})
		if err != nil {
			result.Rejected = append(result.Rejected, domain.RejectedMove{
				AnimalID: animalID,
				Kind:     rejectKind(err),
				Message:  rejectMessage(err),
			})
			result.FailedCount++
		} else {
			result.Accepted = append(result.Accepted, domain.AcceptedMove{
				AnimalID: animalID,
				EventID:  event.ID,
			})
			result.SucceededCount++
		}

		if progress != nil {
			progress(i+1, result.Total)
		}
	}

	return result, nil
}

// validateBatch checks request shape before any animal is touched.
func validateBatch(req domain.BatchMoveRequest) error {
	if len(req.AnimalIDs) == 0 {
		return fmt.Errorf("service.BatchService.MoveMany: %w: animal_ids must not be empty", domain.ErrValidation)
	}
	if strings.TrimSpace(req.PaddockName) == "" {
		return fmt.Errorf("service.BatchService.MoveMany: %w: paddock_name is required", domain.ErrValidation)
	}
	if req.MovementDate.IsZero() {
		return fmt.Errorf("service.BatchService.MoveMany: %w: movement_date is required", domain.ErrValidation)
	}
	return nil
}

// rejectKind classifies a per-animal transfer error into a wire-level kind.
func rejectKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoOpTransfer):
		return domain.RejectKindNoOpTransfer
	case errors.Is(err, domain.ErrNotFound):
		return domain.RejectKindNotFound
	case errors.Is(err, domain.ErrValidation):
		return domain.RejectKindValidation
	case errors.Is(err, domain.ErrConflict):
		return domain.RejectKindConflict
	default:
		return domain.RejectKindInternal
	}
}

// rejectMessage strips the service call-site prefix from a transfer error so
// batch reports read like messages, not stack traces.
func rejectMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{
		"service.MovementService.Transfer: ",
		"service.BatchService.MoveMany: ",
	} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}
