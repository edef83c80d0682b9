package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pcamargo/herdlog/internal/domain"
)

// LocationEventRepo defines the persistence operations for the location
// event store: append-only rows whose only mutation is closure (setting
// exit_date on the open interval).
//
// Open must only be called after any prior open event for the same animal
// has been closed in the same transaction — construct the repo over a pgx.Tx
// and pair CloseOpen with Open there. The partial unique index on
// (animal_id) WHERE exit_date IS NULL enforces the invariant regardless.
type LocationEventRepo interface {
	// Open inserts a new open interval (exit_date NULL) and returns the
	// persisted record. Returns domain.ErrConflict if the animal already has
	// an open interval, domain.ErrNotFound if the animal or paddock row is
	// gone.
	Open(ctx context.Context, event domain.LocationEvent) (domain.LocationEvent, error)

	// CloseOpen sets exit_date on the animal's open interval, if any, and
	// returns the closed event. Idempotent: returns (nil, nil) when the
	// animal has no open interval.
	CloseOpen(ctx context.Context, animalID uuid.UUID, exitDate time.Time) (*domain.LocationEvent, error)

	// OpenByAnimal returns the animal's open interval.
	// Returns domain.ErrNotFound when none is open.
	OpenByAnimal(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error)

	// OpenByAnimalForUpdate is OpenByAnimal with a FOR UPDATE lock on the
	// event row, serializing concurrent transfers for the same animal.
	OpenByAnimalForUpdate(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error)

	// LatestByAnimal returns the animal's most recent event regardless of
	// open/closed state. Returns domain.ErrNotFound when the animal has no
	// events at all.
	LatestByAnimal(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error)

	// HistoryByAnimal returns all of the animal's events ordered by
	// entry_date descending (most recent first).
	HistoryByAnimal(ctx context.Context, animalID uuid.UUID) ([]domain.LocationEvent, error)

	// List returns events matching the filter, ordered by entry_date
	// descending then creation time descending.
	List(ctx context.Context, filter domain.EventFilter) ([]domain.LocationEvent, error)

	// CountOpenByPaddock returns how many animals currently have an open
	// interval at the paddock.
	CountOpenByPaddock(ctx context.Context, paddockID uuid.UUID) (int64, error)
}

// pgLocationEventRepo is the Postgres implementation of LocationEventRepo.
type pgLocationEventRepo struct {
	db DB
}

// NewLocationEventRepo constructs a LocationEventRepo backed by the provided
// db connection. In production pass *pgxpool.Pool; inside a transfer or in
// tests pass a pgx.Tx.
func NewLocationEventRepo(db DB) LocationEventRepo {
	return &pgLocationEventRepo{db: db}
}

// eventColumns lists the event fields in scan order. paddock_name lives on
// the row itself (captured at write time), so no join is needed and closed
// history keeps its name after the paddock is deleted.
const eventColumns = `id, animal_id, paddock_id, paddock_name,
	entry_date, exit_date, reason, notes, recorded_by, created_at`

func (r *pgLocationEventRepo) Open(ctx context.Context, event domain.LocationEvent) (domain.LocationEvent, error) {
	const q = `
		INSERT INTO location_events (animal_id, paddock_id, paddock_name, entry_date, reason, notes, recorded_by)
		VALUES (@animal_id, @paddock_id, @paddock_name, @entry_date, @reason, @notes, @recorded_by)
		RETURNING ` + eventColumns

	args := pgx.NamedArgs{
		"animal_id":    event.AnimalID,
		"paddock_id":   event.PaddockID,
		"paddock_name": event.PaddockName,
		"entry_date":   event.EntryDate,
		"reason":       event.Reason,
		"notes":        event.Notes,
		"recorded_by":  event.RecordedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLocationEvent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.LocationEvent{}, fmt.Errorf("repo.LocationEventRepo.Open: %w", domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return domain.LocationEvent{}, fmt.Errorf("repo.LocationEventRepo.Open: %w", domain.ErrNotFound)
		}
		return domain.LocationEvent{}, fmt.Errorf("repo.LocationEventRepo.Open: %w", err)
	}
	return result, nil
}

func (r *pgLocationEventRepo) CloseOpen(ctx context.Context, animalID uuid.UUID, exitDate time.Time) (*domain.LocationEvent, error) {
	const q = `
		UPDATE location_events
		SET exit_date = @exit_date
		WHERE animal_id = @animal_id
		  AND exit_date IS NULL
		RETURNING ` + eventColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"animal_id": animalID, "exit_date": exitDate})
	result, err := scanLocationEvent(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No open interval — closing is a no-op, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("repo.LocationEventRepo.CloseOpen: %w", err)
	}
	return &result, nil
}

func (r *pgLocationEventRepo) OpenByAnimal(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error) {
	return r.openByAnimal(ctx, animalID, "")
}

func (r *pgLocationEventRepo) OpenByAnimalForUpdate(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error) {
	return r.openByAnimal(ctx, animalID, "FOR UPDATE")
}

// openByAnimal fetches the open interval with an optional row-lock clause.
// lock must be a constant, never caller-supplied data.
func (r *pgLocationEventRepo) openByAnimal(ctx context.Context, animalID uuid.UUID, lock string) (domain.LocationEvent, error) {
	q := `
		SELECT ` + eventColumns + `
		FROM location_events
		WHERE animal_id = @animal_id
		  AND exit_date IS NULL ` + lock

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"animal_id": animalID})
	result, err := scanLocationEvent(row)
	if err != nil {
		return domain.LocationEvent{}, fmt.Errorf("repo.LocationEventRepo.OpenByAnimal: %w", err)
	}
	return result, nil
}

func (r *pgLocationEventRepo) LatestByAnimal(ctx context.Context, animalID uuid.UUID) (domain.LocationEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM location_events
		WHERE animal_id = @animal_id
		ORDER BY entry_date DESC, created_at DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"animal_id": animalID})
	result, err := scanLocationEvent(row)
	if err != nil {
		return domain.LocationEvent{}, fmt.Errorf("repo.LocationEventRepo.LatestByAnimal: %w", err)
	}
	return result, nil
}

func (r *pgLocationEventRepo) HistoryByAnimal(ctx context.Context, animalID uuid.UUID) ([]domain.LocationEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM location_events
		WHERE animal_id = @animal_id
		ORDER BY entry_date DESC, created_at DESC`

	return r.queryEvents(ctx, "HistoryByAnimal", q, pgx.NamedArgs{"animal_id": animalID})
}

func (r *pgLocationEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.LocationEvent, error) {
	// Optional filters are pushed into the WHERE clause with the
	// "@param IS NULL OR column matches" pattern so one prepared statement
	// covers every combination.
	const q = `
		SELECT ` + eventColumns + `
		FROM location_events
		WHERE (@animal_id::uuid IS NULL OR animal_id = @animal_id)
		  AND (@paddock::text = '' OR lower(paddock_name) = lower(@paddock))
		  AND (@since::date IS NULL OR entry_date >= @since)
		ORDER BY entry_date DESC, created_at DESC`

	args := pgx.NamedArgs{
		"animal_id": filter.AnimalID, // nil pointer becomes NULL
		"paddock":   filter.PaddockName,
		"since":     filter.Since,
	}
	return r.queryEvents(ctx, "List", q, args)
}

func (r *pgLocationEventRepo) CountOpenByPaddock(ctx context.Context, paddockID uuid.UUID) (int64, error) {
	const q = `
		SELECT count(*)
		FROM location_events
		WHERE paddock_id = @paddock_id
		  AND exit_date IS NULL`

	var count int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"paddock_id": paddockID}).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repo.LocationEventRepo.CountOpenByPaddock: %w", err)
	}
	return count, nil
}

// queryEvents runs a multi-row event query and scans the results.
func (r *pgLocationEventRepo) queryEvents(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.LocationEvent, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.LocationEventRepo.%s: %w", op, err)
	}
	defer rows.Close()

	events := []domain.LocationEvent{}
	for rows.Next() {
		e, err := scanLocationEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LocationEventRepo.%s: scan: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationEventRepo.%s: rows: %w", op, err)
	}
	return events, nil
}

// scanLocationEvent maps a row in eventColumns order into a
// domain.LocationEvent. paddock_id is NULL for events whose paddock was
// deleted after the interval closed.
func scanLocationEvent(s scanner) (domain.LocationEvent, error) {
	var (
		e         domain.LocationEvent
		id        pgtype.UUID
		animalID  pgtype.UUID
		paddockID pgtype.UUID
		entryDate pgtype.Date
		exitDate  pgtype.Date
	)

	err := s.Scan(&id, &animalID, &paddockID, &e.PaddockName,
		&entryDate, &exitDate, &e.Reason, &e.Notes, &e.RecordedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LocationEvent{}, domain.ErrNotFound
		}
		return domain.LocationEvent{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.AnimalID = uuid.UUID(animalID.Bytes)
	if paddockID.Valid {
		pid := uuid.UUID(paddockID.Bytes)
		e.PaddockID = &pid
	}
	e.EntryDate = entryDate.Time
	if exitDate.Valid {
		ed := exitDate.Time
		e.ExitDate = &ed
	}
	return e, nil
}
