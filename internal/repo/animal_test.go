package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
	"github.com/pcamargo/herdlog/testutil"
)

// newTestAnimalRepo opens a transaction against the test database and returns
// an AnimalRepo backed by that transaction. The transaction is automatically
// rolled back when the test finishes, giving free per-test isolation.
func newTestAnimalRepo(t *testing.T) repo.AnimalRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewAnimalRepo(tx)
}

// animalFixture returns a domain.Animal with sensible defaults for use in
// tests. Callers can override individual fields after calling this function.
func animalFixture() domain.Animal {
	registered := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return domain.Animal{
		EarTag:        "BR-0001",
		Name:          "Mimosa",
		Sex:           "F",
		Breed:         "Nelore",
		LegacyPaddock: "Piquete 4",
		RegisteredAt:  &registered,
	}
}

func TestAnimalRepo_Create(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	input := animalFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.EarTag, got.EarTag)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.LegacyPaddock, got.LegacyPaddock)
	require.NotNil(t, got.RegisteredAt, "RegisteredAt should not be nil")
	assert.True(t, got.RegisteredAt.Equal(*input.RegisteredAt), "RegisteredAt mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestAnimalRepo_Create_NoLegacyPaddock(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	input := animalFixture()
	input.LegacyPaddock = ""
	input.RegisteredAt = nil

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Empty(t, got.LegacyPaddock)
	assert.Nil(t, got.RegisteredAt)
}

func TestAnimalRepo_Create_DuplicateEarTag(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, animalFixture())
	require.NoError(t, err)

	_, err = r.Create(ctx, animalFixture())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnimalRepo_GetByID(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, animalFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.EarTag, got.EarTag)
	assert.Equal(t, created.LegacyPaddock, got.LegacyPaddock)
}

func TestAnimalRepo_GetByID_NotFound(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnimalRepo_List(t *testing.T) {
	r := newTestAnimalRepo(t)
	ctx := context.Background()

	a1 := animalFixture()
	a1.EarTag = "BR-0002"
	a2 := animalFixture()
	a2.EarTag = "BR-0001"

	_, err := r.Create(ctx, a1)
	require.NoError(t, err)
	_, err = r.Create(ctx, a2)
	require.NoError(t, err)

	animals, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(animals), 2, "should return at least the two created animals")

	// List is ordered by ear tag ascending.
	var tags []string
	for _, a := range animals {
		tags = append(tags, a.EarTag)
	}
	assert.IsNonDecreasing(t, tags, "animals should be ordered by ear tag")
}
