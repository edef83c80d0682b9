package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/repo"
)

// exportDateFormat is the date layout used in export cells.
const exportDateFormat = "2006-01-02"

// ExportService assembles the flat location export consumed by the
// spreadsheet/PDF tooling: one row per location event, plus one fallback row
// for each animal that has no events but a legacy location.
type ExportService struct {
	animals repo.AnimalRepo
	events  repo.LocationEventRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(animals repo.AnimalRepo, events repo.LocationEventRepo) *ExportService {
	return &ExportService{animals: animals, events: events}
}

// Rows returns export rows ordered by ear tag, then entry date descending
// within each animal. Animals with neither events nor a legacy location
// contribute nothing.
func (s *ExportService) Rows(ctx context.Context) ([]domain.ExportRow, error) {
	animals, err := s.animals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	events, err := s.events.List(ctx, domain.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	byAnimal := make(map[string][]domain.LocationEvent, len(animals))
	for _, e := range events {
		key := e.AnimalID.String()
		byAnimal[key] = append(byAnimal[key], e)
	}

	rows := []domain.ExportRow{}
	for _, a := range animals {
		animalEvents := byAnimal[a.ID.String()]
		if len(animalEvents) == 0 {
			if a.LegacyPaddock == "" {
				continue
			}
			row := domain.ExportRow{
				AnimalID: a.ID.String(),
				EarTag:   a.EarTag,
				Animal:   a.Name,
				Paddock:  a.LegacyPaddock,
				Source:   domain.LocationSourceFallback,
			}
			if a.RegisteredAt != nil {
				row.EntryDate = a.RegisteredAt.Format(exportDateFormat)
			}
			rows = append(rows, row)
			continue
		}

		for _, e := range animalEvents {
			row := domain.ExportRow{
				AnimalID:   a.ID.String(),
				EarTag:     a.EarTag,
				Animal:     a.Name,
				Paddock:    e.PaddockName,
				EntryDate:  e.EntryDate.Format(exportDateFormat),
				Reason:     e.Reason,
				RecordedBy: e.RecordedBy,
				Source:     domain.LocationSourceEvent,
			}
			if e.ExitDate != nil {
				row.ExitDate = e.ExitDate.Format(exportDateFormat)
			}
			created := e.CreatedAt.UTC()
			row.RecordedAtUTC = &created
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// ExportHeaders are the column names of the flat export, in order. Shared by
// the CSV and XLSX writers so the two formats never drift apart.
var ExportHeaders = []string{
	"animal_id", "ear_tag", "animal", "paddock",
	"entry_date", "exit_date", "reason", "recorded_by", "source", "recorded_at",
}

// Record flattens one export row into strings in ExportHeaders order.
func Record(r domain.ExportRow) []string {
	recordedAt := ""
	if r.RecordedAtUTC != nil {
		recordedAt = r.RecordedAtUTC.Format("2006-01-02T15:04:05Z")
	}
	return []string{
		r.AnimalID, r.EarTag, r.Animal, r.Paddock,
		r.EntryDate, r.ExitDate, r.Reason, r.RecordedBy, string(r.Source), recordedAt,
	}
}

// WriteXLSX writes the export as a one-sheet XLSX workbook.
func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer) error {
	rows, err := s.Rows(ctx)
	if err != nil {
		return err
	}

	const sheet = "Locations"
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck — in-memory workbook

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("service.ExportService.WriteXLSX: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("service.ExportService.WriteXLSX: %w", err)
	}

	writeRow := func(rowNum int, values []string) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, ExportHeaders); err != nil {
		return fmt.Errorf("service.ExportService.WriteXLSX: %w", err)
	}
	for i, r := range rows {
		if err := writeRow(i+2, Record(r)); err != nil {
			return fmt.Errorf("service.ExportService.WriteXLSX: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("service.ExportService.WriteXLSX: %w", err)
	}
	return nil
}
