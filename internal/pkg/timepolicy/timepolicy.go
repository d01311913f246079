package timepolicy

import "time"

// The daily attendance window is a fixed organizational policy:
// check-in opens at 07:00, arrivals strictly after 09:00 are late, and the
// working day ends at 17:00. All functions expect organization-local time.
const (
	CheckInOpenHour = 7
	LateHour        = 9
	CutoffHour      = 17
)

// MaxClassSession caps a class session regardless of the class's configured
// duration.
const MaxClassSession = 2 * time.Hour

// CheckInAllowed reports whether a check-in may be accepted at the given
// local time. The window is [07:00, 17:00).
func CheckInAllowed(local time.Time) bool {
	h := local.Hour()
	return h >= CheckInOpenHour && h < CutoffHour
}

// CheckOutAllowed reports whether a manual check-out may be accepted. After
// 17:00 the open session is the sweep's to close, not the employee's.
func CheckOutAllowed(local time.Time) bool {
	return local.Hour() < CutoffHour
}

// IsLate reports whether an arrival at the given local time counts as late.
// Exactly 09:00:00 is on time; one second past is late.
func IsLate(local time.Time) bool {
	lateBoundary := time.Date(local.Year(), local.Month(), local.Day(), LateHour, 0, 0, 0, local.Location())
	return local.After(lateBoundary)
}

// WorkdayCutoff returns date@17:00:00 in the given location. The sweep closes
// stale sessions at this fixed instant so re-running it is idempotent.
func WorkdayCutoff(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), CutoffHour, 0, 0, 0, loc)
}

// ClassCutoff returns the instant a class session is considered ended:
// check-in plus the configured duration, capped at two hours.
func ClassCutoff(checkIn time.Time, durationHours float64) time.Time {
	d := time.Duration(durationHours * float64(time.Hour))
	if d > MaxClassSession {
		d = MaxClassSession
	}
	return checkIn.Add(d)
}

// IsWeekend reports whether the given date falls on Saturday or Sunday.
// The backfill loop skips weekends.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
