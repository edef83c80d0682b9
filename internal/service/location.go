// Package service contains the business logic for the Herdlog engine.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations. Operations that must be atomic (transfer, paddock
// delete) begin their own pgx transaction and construct repos over it.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
)

// LocationService answers "where is this animal" and "where has it been".
// Both operations are read-only.
type LocationService struct {
	animals repo.AnimalRepo
	events  repo.LocationEventRepo
}

// NewLocationService constructs a LocationService backed by the provided repos.
func NewLocationService(animals repo.AnimalRepo, events repo.LocationEventRepo) *LocationService {
	return &LocationService{animals: animals, events: events}
}

// Resolve returns the animal's current location using the priority chain:
//
//  1. the open location event,
//  2. failing that, the most recent event regardless of state (history that
//     predates open-interval bookkeeping),
//  3. failing that, the legacy fallback field on the animal record, with the
//     entry date taken from the registration date when available,
//  4. failing that, nil — "no location" is a valid state, not an error.
//
// Returns domain.ErrNotFound only when the animal itself does not exist.
func (s *LocationService) Resolve(ctx context.Context, animalID uuid.UUID) (*domain.CurrentLocation, error) {
	animal, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.Resolve: %w", err)
	}

	open, err := s.events.OpenByAnimal(ctx, animalID)
	if err == nil {
		return eventLocation(open), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service.LocationService.Resolve: %w", err)
	}

	latest, err := s.events.LatestByAnimal(ctx, animalID)
	if err == nil {
		return eventLocation(latest), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service.LocationService.Resolve: %w", err)
	}

	if animal.LegacyPaddock != "" {
		return &domain.CurrentLocation{
			PaddockName: animal.LegacyPaddock,
			EntryDate:   animal.RegisteredAt,
			Source:      domain.LocationSourceFallback,
		}, nil
	}

	return nil, nil
}

// History returns the animal's full chronological interval list, most recent
// first. Returns domain.ErrNotFound if the animal does not exist.
func (s *LocationService) History(ctx context.Context, animalID uuid.UUID) ([]domain.LocationEvent, error) {
	if _, err := s.animals.GetByID(ctx, animalID); err != nil {
		return nil, fmt.Errorf("service.LocationService.History: %w", err)
	}
	events, err := s.events.HistoryByAnimal(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.History: %w", err)
	}
	if events == nil {
		events = []domain.LocationEvent{}
	}
	return events, nil
}

// ListEvents returns location events matching the filter.
func (s *LocationService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.LocationEvent, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.ListEvents: %w", err)
	}
	if events == nil {
		events = []domain.LocationEvent{}
	}
	return events, nil
}

// eventLocation builds a CurrentLocation from an event row.
func eventLocation(e domain.LocationEvent) *domain.CurrentLocation {
	entry := e.EntryDate
	return &domain.CurrentLocation{
		PaddockName: e.PaddockName,
		EntryDate:   &entry,
		Reason:      e.Reason,
		Notes:       e.Notes,
		Source:      domain.LocationSourceEvent,
	}
}
