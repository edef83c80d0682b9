package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
)

// PaddockService implements business logic for the paddock registry.
// Reads and writes go through the injected repo; Remove opens its own
// transaction because the occupancy check and the delete must see the same
// state.
type PaddockService struct {
	db       TxBeginner
	paddocks repo.PaddockRepo
}

// NewPaddockService constructs a PaddockService. db may be nil when Remove
// is never used (unit tests of the non-transactional operations).
func NewPaddockService(db TxBeginner, paddocks repo.PaddockRepo) *PaddockService {
	return &PaddockService{db: db, paddocks: paddocks}
}

// Register validates and persists a new paddock. The name is the business
// key; a duplicate (case-insensitive) fails with domain.ErrValidation.
func (s *PaddockService) Register(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error) {
	if err := validatePaddock(paddock); err != nil {
		return domain.Paddock{}, err
	}
	paddock.Name = strings.TrimSpace(paddock.Name)

	result, err := s.paddocks.Create(ctx, paddock)
	if err != nil {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Register: %w", err)
	}
	return result, nil
}

// Get returns a paddock by name, case-insensitively.
func (s *PaddockService) Get(ctx context.Context, name string) (domain.Paddock, error) {
	result, err := s.paddocks.GetByName(ctx, name)
	if err != nil {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Get: %w", err)
	}
	return result, nil
}

// List returns all paddocks ordered by name, case-insensitively.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PaddockService) List(ctx context.Context) ([]domain.Paddock, error) {
	paddocks, err := s.paddocks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PaddockService.List: %w", err)
	}
	if paddocks == nil {
		return []domain.Paddock{}, nil
	}
	return paddocks, nil
}

// Update overwrites the mutable fields of the paddock currently named name.
// Renames are allowed as long as the new name stays unique. Deactivation
// (Active=false) is the alternative to deletion for occupied paddocks.
func (s *PaddockService) Update(ctx context.Context, name string, paddock domain.Paddock) (domain.Paddock, error) {
	if err := validatePaddock(paddock); err != nil {
		return domain.Paddock{}, err
	}

	existing, err := s.paddocks.GetByName(ctx, name)
	if err != nil {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Update: %w", err)
	}

	paddock.ID = existing.ID
	paddock.Name = strings.TrimSpace(paddock.Name)
	result, err := s.paddocks.Update(ctx, paddock)
	if err != nil {
		return domain.Paddock{}, fmt.Errorf("service.PaddockService.Update: %w", err)
	}
	return result, nil
}

// Remove hard-deletes a paddock by name. It fails with domain.ErrOccupied
// while any animal has an open interval there. The occupancy check runs in
// the same transaction as the delete, with the paddock row locked FOR
// UPDATE, so a concurrent transfer into the paddock cannot slip between the
// check and the delete.
func (s *PaddockService) Remove(ctx context.Context, name string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("service.PaddockService.Remove: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — no-op after commit

	paddocks := repo.NewPaddockRepo(tx)
	events := repo.NewLocationEventRepo(tx)

	paddock, err := paddocks.GetByNameForUpdate(ctx, name)
	if err != nil {
		return fmt.Errorf("service.PaddockService.Remove: %w", err)
	}

	occupants, err := events.CountOpenByPaddock(ctx, paddock.ID)
	if err != nil {
		return fmt.Errorf("service.PaddockService.Remove: %w", err)
	}
	if occupants > 0 {
		return fmt.Errorf("service.PaddockService.Remove: %w: %d animals still at %q", domain.ErrOccupied, occupants, paddock.Name)
	}

	if err := paddocks.Delete(ctx, paddock.ID); err != nil {
		return fmt.Errorf("service.PaddockService.Remove: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("service.PaddockService.Remove: commit: %w", err)
	}
	return nil
}

// validatePaddock enforces business rules common to Register and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Area, if set, must be positive.
//   - Capacity, if set, must not be negative.
func validatePaddock(paddock domain.Paddock) error {
	if strings.TrimSpace(paddock.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if paddock.AreaHa != nil && *paddock.AreaHa <= 0 {
		return fmt.Errorf("%w: area_ha must be positive", domain.ErrValidation)
	}
	if paddock.Capacity != nil && *paddock.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", domain.ErrValidation)
	}
	return nil
}
