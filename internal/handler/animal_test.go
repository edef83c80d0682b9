package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcamargo/herdlog/internal/domain"
)

func TestIngestAnimal(t *testing.T) {
	mocks := &serverMocks{}
	mocks.animals.ingest = func(_ context.Context, a domain.Animal) (domain.Animal, error) {
		return a, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPost, "/animals",
		`{"ear_tag":"BR-0001","name":"Mimosa","registered_at":"2024-03-10"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BR-0001", got.EarTag)
	require.NotNil(t, got.RegisteredAt)
	assert.Equal(t, 2024, got.RegisteredAt.Year())
}

func TestIngestAnimal_LegacyFieldSpellings(t *testing.T) {
	// The historical exports disagree on what the fallback field is called;
	// all spellings must land in the one normalized field.
	cases := map[string]string{
		"canonical":  `{"ear_tag":"BR-0001","legacy_paddock":"Piquete 4"}`,
		"snake":      `{"ear_tag":"BR-0001","piquete_atual":"Piquete 4"}`,
		"camel":      `{"ear_tag":"BR-0001","piqueteAtual":"Piquete 4"}`,
		"pasto":      `{"ear_tag":"BR-0001","pasto_atual":"Piquete 4"}`,
		"pastoCamel": `{"ear_tag":"BR-0001","pastoAtual":"Piquete 4"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var seen domain.Animal
			mocks := &serverMocks{}
			mocks.animals.ingest = func(_ context.Context, a domain.Animal) (domain.Animal, error) {
				seen = a
				return a, nil
			}
			r := newTestRouter(mocks)

			rec := doRequest(t, r, http.MethodPost, "/animals", body)

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, "Piquete 4", seen.LegacyPaddock)
		})
	}
}

func TestIngestAnimal_CanonicalFieldWins(t *testing.T) {
	var seen domain.Animal
	mocks := &serverMocks{}
	mocks.animals.ingest = func(_ context.Context, a domain.Animal) (domain.Animal, error) {
		seen = a
		return a, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodPost, "/animals",
		`{"ear_tag":"BR-0001","legacy_paddock":"Piquete 1","pasto_atual":"Piquete 2"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Piquete 1", seen.LegacyPaddock, "first non-empty spelling wins")
}

func TestIngestAnimal_BadRegisteredAt(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serverMocks{}), http.MethodPost, "/animals",
		`{"ear_tag":"BR-0001","registered_at":"10/03/2024"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAnimal_BadUUID(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serverMocks{}), http.MethodGet, "/animals/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAnimalLocation(t *testing.T) {
	entry := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mocks := &serverMocks{}
	mocks.locations.resolve = func(_ context.Context, _ uuid.UUID) (*domain.CurrentLocation, error) {
		return &domain.CurrentLocation{
			PaddockName: "Piquete 2",
			EntryDate:   &entry,
			Source:      domain.LocationSourceEvent,
		}, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodGet, "/animals/"+uuid.New().String()+"/location", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.CurrentLocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Piquete 2", got.PaddockName)
	assert.Equal(t, domain.LocationSourceEvent, got.Source)
}

func TestGetAnimalLocation_NoLocation(t *testing.T) {
	mocks := &serverMocks{}
	mocks.locations.resolve = func(_ context.Context, _ uuid.UUID) (*domain.CurrentLocation, error) {
		return nil, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodGet, "/animals/"+uuid.New().String()+"/location", "")

	// "Nowhere yet" is a valid state: 204, not 404.
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetAnimalLocation_UnknownAnimal(t *testing.T) {
	mocks := &serverMocks{}
	mocks.locations.resolve = func(_ context.Context, _ uuid.UUID) (*domain.CurrentLocation, error) {
		return nil, domain.ErrNotFound
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodGet, "/animals/"+uuid.New().String()+"/location", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnimalHistory(t *testing.T) {
	exit := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	mocks := &serverMocks{}
	mocks.locations.history = func(_ context.Context, _ uuid.UUID) ([]domain.LocationEvent, error) {
		return []domain.LocationEvent{
			{PaddockName: "Piquete 2", EntryDate: exit},
			{PaddockName: "Piquete 1", EntryDate: exit.AddDate(0, 0, -9), ExitDate: &exit},
		}, nil
	}
	r := newTestRouter(mocks)

	rec := doRequest(t, r, http.MethodGet, "/animals/"+uuid.New().String()+"/history", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.LocationEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ExitDate, "most recent interval is open")
	assert.NotNil(t, got[1].ExitDate)
}
