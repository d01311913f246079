package processing

import "context"

// LedgerRepository persists sweep completion marks. Dates are
// organization-local YYYY-MM-DD strings.
type LedgerRepository interface {
	// IsCompleted reports whether the date already has a completed entry.
	IsCompleted(ctx context.Context, date string, organizationID string) (bool, error)

	// MarkCompleted writes the completion entry for the date. Writing an
	// already-marked date is a no-op, not an error.
	MarkCompleted(ctx context.Context, date string, organizationID string, recordsProcessed int) error
}
