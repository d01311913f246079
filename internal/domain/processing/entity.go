package processing

import "time"

// LedgerEntry marks one calendar date as swept to completion. Write-once per
// date; its presence makes the backfill for that date a no-op.
type LedgerEntry struct {
	ID               string
	OrganizationID   string
	Date             time.Time
	RecordsProcessed int
	Status           string
	CreatedAt        time.Time
}

// LedgerStatusCompleted is the only status the scheduler writes.
const LedgerStatusCompleted = "completed"

// SweepResult reports what one sweep invocation accomplished. Counts are
// partial on per-record failures, never all-or-nothing.
type SweepResult struct {
	AutoCheckouts       int `json:"auto_checkouts"`
	AbsentRecords       int `json:"absent_records"`
	MissedDaysProcessed int `json:"missed_days_processed"`
}
