package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
)

// AnimalService maintains the engine's mirror of the external animal
// registry. The mirror is write-once per animal (ingest) plus reads; herd
// bookkeeping itself lives outside this engine.
type AnimalService struct {
	animals repo.AnimalRepo
}

// NewAnimalService constructs an AnimalService backed by the provided repo.
func NewAnimalService(animals repo.AnimalRepo) *AnimalService {
	return &AnimalService{animals: animals}
}

// Ingest validates and persists one animal from the external registry.
// The legacy fallback location arrives already normalized to a single field
// (the handler collapses the historical spellings).
func (s *AnimalService) Ingest(ctx context.Context, animal domain.Animal) (domain.Animal, error) {
	if strings.TrimSpace(animal.EarTag) == "" {
		return domain.Animal{}, fmt.Errorf("%w: ear_tag is required", domain.ErrValidation)
	}
	animal.EarTag = strings.TrimSpace(animal.EarTag)
	animal.LegacyPaddock = strings.TrimSpace(animal.LegacyPaddock)

	result, err := s.animals.Create(ctx, animal)
	if err != nil {
		return domain.Animal{}, fmt.Errorf("service.AnimalService.Ingest: %w", err)
	}
	return result, nil
}

// GetByID returns a single animal by ID.
func (s *AnimalService) GetByID(ctx context.Context, id uuid.UUID) (domain.Animal, error) {
	result, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return domain.Animal{}, fmt.Errorf("service.AnimalService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all animals ordered by ear tag.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AnimalService) List(ctx context.Context) ([]domain.Animal, error) {
	animals, err := s.animals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AnimalService.List: %w", err)
	}
	if animals == nil {
		return []domain.Animal{}, nil
	}
	return animals, nil
}
