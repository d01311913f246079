package attendance

import (
	"context"
)

// Repository defines data access for work attendance records. All methods
// take organizationID to prevent cross-organization data access, and dates as
// organization-local YYYY-MM-DD strings.
type Repository interface {
	// Create inserts a new record. The storage layer enforces uniqueness on
	// (employee_id, date) and returns ErrAlreadyActive when a racing writer
	// got there first.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns the employee's record for the date, or
	// nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string, organizationID string) (*Record, error)

	// GetForUpdate is GetByEmployeeAndDate with a row lock. Must run inside
	// a transaction; serializes concurrent mutation per (employee, date).
	GetForUpdate(ctx context.Context, employeeID string, date string, organizationID string) (*Record, error)

	// UpdateSessions persists the record's session document, status, and
	// legacy time mirrors.
	UpdateSessions(ctx context.Context, record Record) error

	// ListOpenForDate returns every record for the date that still has an
	// open session. Used by the auto-checkout sweep.
	ListOpenForDate(ctx context.Context, date string, organizationID string) ([]Record, error)

	// ListEmployeeIDsWithRecord returns the IDs of employees that have any
	// record for the date.
	ListEmployeeIDsWithRecord(ctx context.Context, date string, organizationID string) ([]string, error)

	// BulkCreateAbsent inserts absent records, skipping any (employee, date)
	// that already has one, and returns the number actually inserted.
	BulkCreateAbsent(ctx context.Context, records []Record) (int, error)
}
