package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/service"
)

// exportFixtures returns repos for two animals: one with a closed and an
// open event, one with only a legacy location, plus a third animal that has
// neither and must not appear in the export.
func exportFixtures(t *testing.T) (*mockAnimalRepo, *mockEventRepo) {
	t.Helper()

	tracked := domain.Animal{ID: uuid.New(), EarTag: "BR-0001", Name: "Mimosa"}
	legacyOnly := domain.Animal{ID: uuid.New(), EarTag: "BR-0002", LegacyPaddock: "Piquete 4"}
	nowhere := domain.Animal{ID: uuid.New(), EarTag: "BR-0003"}

	entry := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	exit := entry.AddDate(0, 0, 9)
	created := time.Date(2025, 5, 1, 14, 30, 0, 0, time.UTC)

	events := []domain.LocationEvent{
		{
			ID:          uuid.New(),
			AnimalID:    tracked.ID,
			PaddockName: "Piquete 2",
			EntryDate:   exit,
			Reason:      "rotation",
			RecordedBy:  "maria",
			CreatedAt:   created.AddDate(0, 0, 9),
		},
		{
			ID:          uuid.New(),
			AnimalID:    tracked.ID,
			PaddockName: "Piquete 1",
			EntryDate:   entry,
			ExitDate:    &exit,
			RecordedBy:  "maria",
			CreatedAt:   created,
		},
	}

	animals := &mockAnimalRepo{
		list: func(_ context.Context) ([]domain.Animal, error) {
			return []domain.Animal{tracked, legacyOnly, nowhere}, nil
		},
	}
	eventRepo := &mockEventRepo{
		list: func(_ context.Context, _ domain.EventFilter) ([]domain.LocationEvent, error) {
			return events, nil
		},
	}
	return animals, eventRepo
}

func TestExportService_Rows(t *testing.T) {
	animals, events := exportFixtures(t)
	svc := service.NewExportService(animals, events)

	rows, err := svc.Rows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3, "two event rows plus one fallback row")

	// Tracked animal: one row per event, open interval has no exit date.
	assert.Equal(t, "BR-0001", rows[0].EarTag)
	assert.Equal(t, "Piquete 2", rows[0].Paddock)
	assert.Equal(t, "2025-05-10", rows[0].EntryDate)
	assert.Empty(t, rows[0].ExitDate)
	assert.Equal(t, domain.LocationSourceEvent, rows[0].Source)
	require.NotNil(t, rows[0].RecordedAtUTC)

	assert.Equal(t, "Piquete 1", rows[1].Paddock)
	assert.Equal(t, "2025-05-01", rows[1].EntryDate)
	assert.Equal(t, "2025-05-10", rows[1].ExitDate)

	// Legacy-only animal: a single fallback row with nobody recording it.
	assert.Equal(t, "BR-0002", rows[2].EarTag)
	assert.Equal(t, "Piquete 4", rows[2].Paddock)
	assert.Equal(t, domain.LocationSourceFallback, rows[2].Source)
	assert.Empty(t, rows[2].RecordedBy)
	assert.Nil(t, rows[2].RecordedAtUTC)

	// The animal with neither events nor a legacy location is absent.
	for _, row := range rows {
		assert.NotEqual(t, "BR-0003", row.EarTag)
	}
}

func TestExportService_RecordMatchesHeaders(t *testing.T) {
	recordedAt := time.Date(2025, 5, 1, 14, 30, 0, 0, time.UTC)
	row := domain.ExportRow{
		AnimalID:      uuid.New().String(),
		EarTag:        "BR-0001",
		Paddock:       "Piquete 1",
		EntryDate:     "2025-05-01",
		Source:        domain.LocationSourceEvent,
		RecordedAtUTC: &recordedAt,
	}

	record := service.Record(row)

	require.Len(t, record, len(service.ExportHeaders),
		"record and header column counts must stay in lockstep")
	assert.Equal(t, "2025-05-01T14:30:00Z", record[len(record)-1])
}

func TestExportService_WriteXLSX(t *testing.T) {
	animals, events := exportFixtures(t)
	svc := service.NewExportService(animals, events)

	var buf bytes.Buffer
	err := svc.WriteXLSX(context.Background(), &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err, "output should be a readable workbook")
	defer f.Close()

	rows, err := f.GetRows("Locations")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus three data rows")
	assert.Equal(t, service.ExportHeaders, rows[0])
	assert.Equal(t, "BR-0001", rows[1][1])
	assert.Equal(t, "Piquete 4", rows[3][3])
}
