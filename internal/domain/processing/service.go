package processing

import "context"

// Service is the auto-processing scheduler: idempotent end-of-day sweeps plus
// the missed-day backfill.
type Service interface {
	// RunSweep backfills unfinalized weekdays from the last seven calendar
	// days, then, once local time has reached the day's cutoff, closes
	// today's stale sessions at the fixed cutoff timestamp and marks
	// no-show employees absent.
	RunSweep(ctx context.Context) (SweepResult, error)

	// TriggerSweep runs RunSweep in the background unless one is already in
	// flight. Safe to call from any request path.
	TriggerSweep()
}
