package processing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/domain/employee"
	"github.com/studiofit/attendance-backend-go/internal/domain/organization"
	"github.com/studiofit/attendance-backend-go/internal/domain/processing"
	"github.com/studiofit/attendance-backend-go/internal/pkg/clock"
	"github.com/studiofit/attendance-backend-go/internal/pkg/timepolicy"
)

// backfillDays is how many calendar days back (excluding today) the sweep
// looks for unfinalized weekdays.
const backfillDays = 7

type ProcessingServiceImpl struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	orgRepo        organization.Repository
	ledgerRepo     processing.LedgerRepository
	clock          clock.Clock

	// mu serializes sweeps within this instance; storage-level uniqueness
	// keeps concurrent instances idempotent.
	mu sync.Mutex
}

func NewProcessingService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	orgRepo organization.Repository,
	ledgerRepo processing.LedgerRepository,
	clk clock.Clock,
) *ProcessingServiceImpl {
	return &ProcessingServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		orgRepo:        orgRepo,
		ledgerRepo:     ledgerRepo,
		clock:          clk,
	}
}

// RunSweep implements processing.Service.
func (s *ProcessingServiceImpl) RunSweep(ctx context.Context) (processing.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runSweep(ctx)
}

// TriggerSweep implements processing.Service. Fire-and-forget: if a sweep is
// already in flight the trigger is dropped, never queued.
func (s *ProcessingServiceImpl) TriggerSweep() {
	if !s.mu.TryLock() {
		return
	}
	go func() {
		defer s.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.runSweep(ctx); err != nil {
			slog.Error("Opportunistic sweep failed", "error", err)
		}
	}()
}

func (s *ProcessingServiceImpl) runSweep(ctx context.Context) (processing.SweepResult, error) {
	var result processing.SweepResult

	orgs, err := s.orgRepo.List(ctx)
	if err != nil {
		return result, err
	}

	for _, org := range orgs {
		loc, err := time.LoadLocation(org.Timezone)
		if err != nil {
			loc = s.clock.Location()
		}
		nowLocal := s.clock.Now().In(loc)

		// Backfill first: any of the last seven weekdays that never got a
		// completed ledger entry is reconciled now, exactly once.
		for i := backfillDays; i >= 1; i-- {
			day := nowLocal.AddDate(0, 0, -i)
			if timepolicy.IsWeekend(day) {
				continue
			}
			date := day.Format("2006-01-02")

			done, err := s.ledgerRepo.IsCompleted(ctx, date, org.ID)
			if err != nil {
				slog.Error("Sweep: failed to read processing ledger", "organization_id", org.ID, "date", date, "error", err)
				continue
			}
			if done {
				continue
			}

			created, err := s.absenceSweep(ctx, org, day)
			if err != nil {
				slog.Error("Sweep: backfill failed, will retry next trigger", "organization_id", org.ID, "date", date, "error", err)
				continue
			}
			if err := s.ledgerRepo.MarkCompleted(ctx, date, org.ID, created); err != nil {
				slog.Error("Sweep: failed to write processing ledger", "organization_id", org.ID, "date", date, "error", err)
				continue
			}

			result.AbsentRecords += created
			result.MissedDaysProcessed++
			slog.Info("Sweep: backfilled missed day", "organization_id", org.ID, "date", date, "absent_records", created)
		}

		// Today's sweeps wait for the day's cutoff.
		if nowLocal.Hour() < timepolicy.CutoffHour {
			continue
		}

		result.AutoCheckouts += s.autoCheckoutSweep(ctx, org, nowLocal, loc)

		created, err := s.absenceSweep(ctx, org, nowLocal)
		if err != nil {
			slog.Error("Sweep: absence sweep failed", "organization_id", org.ID, "error", err)
		}
		result.AbsentRecords += created
	}

	return result, nil
}

// autoCheckoutSweep closes every still-open session for the date at the fixed
// cutoff timestamp. Closing at date@17:00:00 rather than "now" makes
// re-running the sweep a no-op.
func (s *ProcessingServiceImpl) autoCheckoutSweep(ctx context.Context, org organization.Organization, day time.Time, loc *time.Location) int {
	date := day.Format("2006-01-02")

	records, err := s.attendanceRepo.ListOpenForDate(ctx, date, org.ID)
	if err != nil {
		slog.Error("Sweep: failed to list open sessions", "organization_id", org.ID, "date", date, "error", err)
		return 0
	}

	cutoffUTC := timepolicy.WorkdayCutoff(day, loc).UTC()

	closed := 0
	for _, rec := range records {
		if !rec.CloseOpenSession(cutoffUTC) {
			continue
		}
		if err := s.attendanceRepo.UpdateSessions(ctx, rec); err != nil {
			slog.Error("Sweep: failed to auto-close session",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			continue
		}
		closed++
	}

	if closed > 0 {
		slog.Info("Sweep: auto-closed stale sessions", "organization_id", org.ID, "date", date, "count", closed)
	}
	return closed
}

// absenceSweep creates absent records for active employees with no record at
// all for the date. Re-derivable from current state, so safe to repeat.
func (s *ProcessingServiceImpl) absenceSweep(ctx context.Context, org organization.Organization, day time.Time) (int, error) {
	date := day.Format("2006-01-02")

	activeIDs, err := s.employeeRepo.ListActiveIDs(ctx, org.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	withRecord, err := s.attendanceRepo.ListEmployeeIDsWithRecord(ctx, date, org.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list recorded employees: %w", err)
	}

	remainder := difference(activeIDs, withRecord)
	if len(remainder) == 0 {
		return 0, nil
	}

	// Defensive double-check: a check-in that landed between the two reads
	// above must not be clobbered by an absent record.
	withRecord, err = s.attendanceRepo.ListEmployeeIDsWithRecord(ctx, date, org.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to re-check recorded employees: %w", err)
	}
	remainder = difference(remainder, withRecord)
	if len(remainder) == 0 {
		return 0, nil
	}

	absences := make([]attendance.Record, 0, len(remainder))
	for _, employeeID := range remainder {
		absences = append(absences, attendance.Record{
			EmployeeID:     employeeID,
			OrganizationID: org.ID,
			Date:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Status:         attendance.StatusAbsent,
		})
	}

	created, err := s.attendanceRepo.BulkCreateAbsent(ctx, absences)
	if err != nil {
		// Partial counts are fine; the next trigger picks up the rest.
		return created, fmt.Errorf("failed to bulk create absences: %w", err)
	}

	if created > 0 {
		slog.Info("Sweep: marked absent employees", "organization_id", org.ID, "date", date, "count", created)
	}
	return created, nil
}

func difference(ids []string, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := excluded[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
