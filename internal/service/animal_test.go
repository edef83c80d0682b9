package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/service"
)

// echoAnimalRepo echoes creates back — useful for validation-only tests.
func echoAnimalRepo() *mockAnimalRepo {
	return &mockAnimalRepo{
		create: func(_ context.Context, a domain.Animal) (domain.Animal, error) { return a, nil },
	}
}

func TestAnimalService_Ingest_Valid(t *testing.T) {
	svc := service.NewAnimalService(echoAnimalRepo())

	got, err := svc.Ingest(context.Background(), domain.Animal{EarTag: "BR-0001", Name: "Mimosa"})

	require.NoError(t, err)
	assert.Equal(t, "BR-0001", got.EarTag)
	assert.Equal(t, "Mimosa", got.Name)
}

func TestAnimalService_Ingest_MissingEarTag(t *testing.T) {
	svc := service.NewAnimalService(echoAnimalRepo())

	_, err := svc.Ingest(context.Background(), domain.Animal{EarTag: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnimalService_Ingest_TrimsFields(t *testing.T) {
	svc := service.NewAnimalService(echoAnimalRepo())

	got, err := svc.Ingest(context.Background(), domain.Animal{
		EarTag:        "  BR-0001  ",
		LegacyPaddock: "  Piquete 4 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "BR-0001", got.EarTag)
	assert.Equal(t, "Piquete 4", got.LegacyPaddock)
}

func TestAnimalService_List_EmptyIsNotNil(t *testing.T) {
	animals := &mockAnimalRepo{
		list: func(_ context.Context) ([]domain.Animal, error) { return nil, nil },
	}
	svc := service.NewAnimalService(animals)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.NotNil(t, got, "empty list should serialize as [], not null")
	assert.Empty(t, got)
}
