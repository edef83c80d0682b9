// Package handler — export.go implements GET /export.
// Returns the flat location table as JSON (default), CSV (?format=csv), or
// XLSX (?format=xlsx) for the spreadsheet tooling downstream.
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pcamargo/herdlog/internal/domain"
	"github.com/pcamargo/herdlog/internal/service"
)

// exportRowResponse is the JSON shape of one export row.
type exportRowResponse struct {
	AnimalID   string                `json:"animal_id"`
	EarTag     string                `json:"ear_tag"`
	Animal     string                `json:"animal,omitempty"`
	Paddock    string                `json:"paddock"`
	EntryDate  string                `json:"entry_date,omitempty"`
	ExitDate   string                `json:"exit_date,omitempty"`
	Reason     string                `json:"reason,omitempty"`
	RecordedBy string                `json:"recorded_by,omitempty"`
	Source     domain.LocationSource `json:"source"`
	RecordedAt *time.Time            `json:"recorded_at,omitempty"`
}

// getExport handles GET /export.
func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("format") {
	case "xlsx":
		s.exportXLSX(w, r)
	case "csv":
		s.exportCSV(w, r)
	default:
		s.exportJSON(w, r)
	}
}

func (s *Server) exportJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Rows(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]exportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowResponse{
			AnimalID:   row.AnimalID,
			EarTag:     row.EarTag,
			Animal:     row.Animal,
			Paddock:    row.Paddock,
			EntryDate:  row.EntryDate,
			ExitDate:   row.ExitDate,
			Reason:     row.Reason,
			RecordedBy: row.RecordedBy,
			Source:     row.Source,
			RecordedAt: row.RecordedAtUTC,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Rows(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(service.ExportHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(service.Record(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="locations.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	// Build the workbook into a buffer first so errors can still produce an
	// error response instead of a truncated download.
	var buf bytes.Buffer
	if err := s.export.WriteXLSX(r.Context(), &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="locations.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
