package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
)

// TxBeginner starts a database transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransferInput carries one transfer request into the movement recorder.
type TransferInput struct {
	AnimalID     uuid.UUID
	PaddockName  string
	MovementDate time.Time
	Reason       string
	Notes        string
	RecordedBy   string
}

// MovementService records animal transfers. Each transfer runs in its own
// transaction: the animal's open interval is locked FOR UPDATE, closed with
// the movement date, and a new open interval is inserted — so two concurrent
// transfers for the same animal serialize on the row lock, and the partial
// unique index on open intervals is the backstop if neither holds it.
type MovementService struct {
	db TxBeginner
}

// NewMovementService constructs a MovementService on the given pool.
func NewMovementService(db TxBeginner) *MovementService {
	return &MovementService{db: db}
}

// Transfer validates and commits a single animal's move.
//
// Returns domain.ErrValidation on malformed input or a movement date that
// would overlap existing history (before the open interval's entry date, or
// before the last closed interval's exit date), domain.ErrNotFound for an unknown
// animal or destination paddock, domain.ErrNoOpTransfer when the destination
// is already the animal's current location, and domain.ErrConflict when a
// concurrent transfer for the same animal won the race.
func (s *MovementService) Transfer(ctx context.Context, in TransferInput) (domain.LocationEvent, error) {
	if err := validateTransfer(in); err != nil {
		return domain.LocationEvent{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — no-op after commit

	animals := repo.NewAnimalRepo(tx)
	paddocks := repo.NewPaddockRepo(tx)
	events := repo.NewLocationEventRepo(tx)

	animal, err := animals.GetByID(ctx, in.AnimalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w: animal %s", domain.ErrNotFound, in.AnimalID)
		}
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
	}

	// FOR SHARE: a concurrent paddock delete must wait for this transfer to
	// commit, then re-see the occupancy it creates.
	paddock, err := paddocks.GetByNameForShare(ctx, in.PaddockName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w: paddock %q", domain.ErrNotFound, in.PaddockName)
		}
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
	}

	open, err := events.OpenByAnimalForUpdate(ctx, in.AnimalID)
	hasOpen := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
	}

	// No-op rejection follows the resolver chain: the open interval, else
	// the most recent event, else the legacy fallback field.
	current := animal.LegacyPaddock
	var latest domain.LocationEvent
	hasLatest := false
	if hasOpen {
		current = open.PaddockName
	} else {
		latest, err = events.LatestByAnimal(ctx, in.AnimalID)
		if err == nil {
			hasLatest = true
			current = latest.PaddockName
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
		}
	}
	if strings.EqualFold(current, paddock.Name) {
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", domain.ErrNoOpTransfer)
	}

	// Movement dates may be backdated, so the ordering check is against the
	// open interval's own entry date, never against today.
	if hasOpen {
		if in.MovementDate.Before(open.EntryDate) {
			return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w: movement date %s is before the current interval's entry date %s",
				domain.ErrValidation, in.MovementDate.Format("2006-01-02"), open.EntryDate.Format("2006-01-02"))
		}
		if _, err := events.CloseOpen(ctx, in.AnimalID, in.MovementDate); err != nil {
			return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
		}
	} else if hasLatest && latest.ExitDate != nil && in.MovementDate.Before(*latest.ExitDate) {
		// Closed-only history: the new interval must not overlap the last
		// closed one either.
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w: movement date %s is before the last interval's exit date %s",
			domain.ErrValidation, in.MovementDate.Format("2006-01-02"), latest.ExitDate.Format("2006-01-02"))
	}

	created, err := events.Open(ctx, domain.LocationEvent{
		AnimalID:    in.AnimalID,
		PaddockID:   &paddock.ID,
		PaddockName: paddock.Name,
		EntryDate:   in.MovementDate,
		Reason:      in.Reason,
		Notes:       in.Notes,
		RecordedBy:  in.RecordedBy,
	})
	if err != nil {
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LocationEvent{}, fmt.Errorf("service.MovementService.Transfer: commit: %w", err)
	}
	return created, nil
}

// validateTransfer enforces shape rules shared by single and batch transfers.
func validateTransfer(in TransferInput) error {
	if in.AnimalID == uuid.Nil {
		return fmt.Errorf("service.MovementService.Transfer: %w: animal_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.PaddockName) == "" {
		return fmt.Errorf("service.MovementService.Transfer: %w: destination_paddock is required", domain.ErrValidation)
	}
	if in.MovementDate.IsZero() {
		return fmt.Errorf("service.MovementService.Transfer: %w: movement_date is required", domain.ErrValidation)
	}
	return nil
}
