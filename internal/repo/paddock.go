package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pcamargo/herdlog/internal/domain"
)

// PaddockRepo defines the persistence operations for Paddocks.
// Name lookups are case-insensitive: "Piquete 1" and "piquete 1" are the
// same paddock.
type PaddockRepo interface {
	// Create inserts a new paddock and returns the persisted record.
	// Returns domain.ErrValidation if a paddock with the same name
	// (case-insensitive) already exists.
	Create(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error)

	// GetByName retrieves a paddock by name, case-insensitively.
	// Returns domain.ErrNotFound if no such paddock exists.
	GetByName(ctx context.Context, name string) (domain.Paddock, error)

	// GetByNameForShare is GetByName with a FOR SHARE row lock. Transfers
	// take this lock so a concurrent delete of the destination paddock
	// blocks until the transfer commits.
	GetByNameForShare(ctx context.Context, name string) (domain.Paddock, error)

	// GetByNameForUpdate is GetByName with a FOR UPDATE row lock. Deletes
	// take this lock so the occupancy check and the delete see the same
	// state even under concurrent transfers.
	GetByNameForUpdate(ctx context.Context, name string) (domain.Paddock, error)

	// List returns all paddocks ordered by name, case-insensitively.
	List(ctx context.Context) ([]domain.Paddock, error)

	// Update overwrites the mutable fields of a paddock and returns the
	// updated record. Returns domain.ErrNotFound if no paddock with that ID
	// exists, domain.ErrValidation on a rename that collides with another
	// paddock's name.
	Update(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error)

	// Delete removes a paddock by ID. Returns domain.ErrNotFound if it does
	// not exist. Events that referenced the paddock keep their captured
	// paddock_name; their paddock_id is cleared by the FK.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPaddockRepo is the Postgres implementation of PaddockRepo.
type pgPaddockRepo struct {
	db DB
}

// NewPaddockRepo constructs a PaddockRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPaddockRepo(db DB) PaddockRepo {
	return &pgPaddockRepo{db: db}
}

const paddockColumns = `id, name, area_ha, capacity, kind, notes, active, created_at, updated_at`

func (r *pgPaddockRepo) Create(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error) {
	const q = `
		INSERT INTO paddocks (name, area_ha, capacity, kind, notes, active)
		VALUES (@name, @area_ha, @capacity, @kind, @notes, @active)
		RETURNING ` + paddockColumns

	args := pgx.NamedArgs{
		"name":     paddock.Name,
		"area_ha":  paddock.AreaHa, // nil becomes NULL
		"capacity": paddock.Capacity,
		"kind":     paddock.Kind,
		"notes":    paddock.Notes,
		"active":   paddock.Active,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPaddock(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Paddock{}, fmt.Errorf("repo.PaddockRepo.Create: %w: paddock %q already exists", domain.ErrValidation, paddock.Name)
		}
		return domain.Paddock{}, fmt.Errorf("repo.PaddockRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPaddockRepo) GetByName(ctx context.Context, name string) (domain.Paddock, error) {
	return r.getByName(ctx, name, "")
}

func (r *pgPaddockRepo) GetByNameForShare(ctx context.Context, name string) (domain.Paddock, error) {
	return r.getByName(ctx, name, "FOR SHARE")
}

func (r *pgPaddockRepo) GetByNameForUpdate(ctx context.Context, name string) (domain.Paddock, error) {
	return r.getByName(ctx, name, "FOR UPDATE")
}

// getByName retrieves a paddock by lowercased name with an optional row-lock
// clause. lock must be a constant ("", "FOR SHARE", "FOR UPDATE") — it is
// interpolated into the SQL, never caller-supplied data.
func (r *pgPaddockRepo) getByName(ctx context.Context, name, lock string) (domain.Paddock, error) {
	q := `
		SELECT ` + paddockColumns + `
		FROM paddocks
		WHERE lower(name) = lower(@name) ` + lock

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanPaddock(row)
	if err != nil {
		return domain.Paddock{}, fmt.Errorf("repo.PaddockRepo.GetByName: %w", err)
	}
	return result, nil
}

func (r *pgPaddockRepo) List(ctx context.Context) ([]domain.Paddock, error) {
	const q = `
		SELECT ` + paddockColumns + `
		FROM paddocks
		ORDER BY lower(name)`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PaddockRepo.List: %w", err)
	}
	defer rows.Close()

	paddocks := []domain.Paddock{}
	for rows.Next() {
		p, err := scanPaddock(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaddockRepo.List: scan: %w", err)
		}
		paddocks = append(paddocks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaddockRepo.List: rows: %w", err)
	}
	return paddocks, nil
}

func (r *pgPaddockRepo) Update(ctx context.Context, paddock domain.Paddock) (domain.Paddock, error) {
	const q = `
		UPDATE paddocks
		SET name       = @name,
		    area_ha    = @area_ha,
		    capacity   = @capacity,
		    kind       = @kind,
		    notes      = @notes,
		    active     = @active,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + paddockColumns

	args := pgx.NamedArgs{
		"id":       paddock.ID,
		"name":     paddock.Name,
		"area_ha":  paddock.AreaHa,
		"capacity": paddock.Capacity,
		"kind":     paddock.Kind,
		"notes":    paddock.Notes,
		"active":   paddock.Active,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPaddock(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Paddock{}, fmt.Errorf("repo.PaddockRepo.Update: %w: paddock %q already exists", domain.ErrValidation, paddock.Name)
		}
		return domain.Paddock{}, fmt.Errorf("repo.PaddockRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPaddockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM paddocks WHERE id = @id`

	// Closed history does not pin the paddock: the events FK is ON DELETE
	// SET NULL and each event carries its own paddock_name. Open intervals
	// are handled by the occupancy gate in the service before Delete runs.
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PaddockRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PaddockRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPaddock maps a single database row into a domain.Paddock.
// It handles the UUID and the nullable area/capacity conversions.
func scanPaddock(s scanner) (domain.Paddock, error) {
	var (
		p        domain.Paddock
		id       pgtype.UUID
		areaHa   pgtype.Float8
		capacity pgtype.Int4
	)

	err := s.Scan(&id, &p.Name, &areaHa, &capacity, &p.Kind, &p.Notes,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Paddock{}, domain.ErrNotFound
		}
		return domain.Paddock{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if areaHa.Valid {
		a := areaHa.Float64
		p.AreaHa = &a
	}
	if capacity.Valid {
		c := int(capacity.Int32)
		p.Capacity = &c
	}
	return p, nil
}
