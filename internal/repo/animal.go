// Package repo contains all database access logic for the Herdlog engine.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pcamargo/herdlog/internal/domain"
)

// DB is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly lets
// integration tests pass a transaction that is rolled back after each test,
// and lets services run several repos inside one transaction by constructing
// them over the same pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AnimalRepo defines the persistence operations for the animal registry
// mirror. The service layer depends on this interface, not the concrete
// Postgres implementation, so it can be unit-tested with a mock.
type AnimalRepo interface {
	// Create inserts a new animal and returns the persisted record.
	// Returns domain.ErrValidation if the ear tag is already registered.
	Create(ctx context.Context, animal domain.Animal) (domain.Animal, error)

	// GetByID retrieves a single animal by its UUID primary key.
	// Returns domain.ErrNotFound if no animal with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Animal, error)

	// List returns all animals ordered by ear tag.
	List(ctx context.Context) ([]domain.Animal, error)
}

// pgAnimalRepo is the Postgres implementation of AnimalRepo.
type pgAnimalRepo struct {
	db DB
}

// NewAnimalRepo constructs an AnimalRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewAnimalRepo(db DB) AnimalRepo {
	return &pgAnimalRepo{db: db}
}

func (r *pgAnimalRepo) Create(ctx context.Context, animal domain.Animal) (domain.Animal, error) {
	const q = `
		INSERT INTO animals (ear_tag, name, sex, breed, legacy_paddock, registered_at)
		VALUES (@ear_tag, @name, @sex, @breed, @legacy_paddock, @registered_at)
		RETURNING id, ear_tag, name, sex, breed, legacy_paddock, registered_at, created_at, updated_at`

	args := pgx.NamedArgs{
		"ear_tag":        animal.EarTag,
		"name":           animal.Name,
		"sex":            animal.Sex,
		"breed":          animal.Breed,
		"legacy_paddock": animal.LegacyPaddock,
		"registered_at":  animal.RegisteredAt, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAnimal(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Animal{}, fmt.Errorf("repo.AnimalRepo.Create: %w: ear tag %q already registered", domain.ErrValidation, animal.EarTag)
		}
		return domain.Animal{}, fmt.Errorf("repo.AnimalRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAnimalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Animal, error) {
	const q = `
		SELECT id, ear_tag, name, sex, breed, legacy_paddock, registered_at, created_at, updated_at
		FROM animals
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanAnimal(row)
	if err != nil {
		return domain.Animal{}, fmt.Errorf("repo.AnimalRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAnimalRepo) List(ctx context.Context) ([]domain.Animal, error) {
	const q = `
		SELECT id, ear_tag, name, sex, breed, legacy_paddock, registered_at, created_at, updated_at
		FROM animals
		ORDER BY ear_tag`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.AnimalRepo.List: %w", err)
	}
	defer rows.Close()

	animals := []domain.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AnimalRepo.List: scan: %w", err)
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AnimalRepo.List: rows: %w", err)
	}
	return animals, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanAnimal maps a single database row into a domain.Animal.
func scanAnimal(s scanner) (domain.Animal, error) {
	var (
		a            domain.Animal
		id           pgtype.UUID
		registeredAt pgtype.Date
	)

	err := s.Scan(&id, &a.EarTag, &a.Name, &a.Sex, &a.Breed, &a.LegacyPaddock,
		&registeredAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Animal{}, domain.ErrNotFound
		}
		return domain.Animal{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	if registeredAt.Valid {
		ra := registeredAt.Time
		a.RegisteredAt = &ra
	}
	return a, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
