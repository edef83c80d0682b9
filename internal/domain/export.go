package domain

import "time"

// ExportRow is a single row in the flat location export: one row per
// location event, with animal and paddock fields repeated. Animals that have
// no events but resolve to a fallback location contribute one row with
// Source "fallback" and no exit date.
//
// Dates are pre-formatted as "2006-01-02" strings so CSV and XLSX writers
// need no further conversion; empty string means not set.
type ExportRow struct {
	AnimalID  string
	EarTag    string
	Animal    string
	Paddock   string
	EntryDate string
	ExitDate  string
	Reason    string
	// RecordedBy is empty for fallback rows — nobody recorded a transfer.
	RecordedBy string
	Source     LocationSource
	// RecordedAtUTC is the event creation instant, nil for fallback rows.
	RecordedAtUTC *time.Time
}
