package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// SessionSchemaVersion tags the JSONB session document so future shape
// changes can be migrated at the storage boundary.
const SessionSchemaVersion = 1

// Session is one check-in/check-out pair. CheckOut is nil while the session
// is open. Timestamps are stored in UTC.
type Session struct {
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

// Record is one employee's work attendance for one calendar date. There is
// exactly zero or one record per (employee, date).
type Record struct {
	ID             string
	EmployeeID     string
	OrganizationID string
	Date           time.Time
	Status         Status
	Sessions       []Session

	// Legacy mirrors: first check-in and most recent check-out, kept in
	// sync for readers that predate multi-session records.
	CheckInTime  *time.Time
	CheckOutTime *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenSession returns a pointer to the open session, or nil. At most one
// session is open at any instant.
func (r *Record) OpenSession() *Session {
	for i := range r.Sessions {
		if r.Sessions[i].CheckOut == nil {
			return &r.Sessions[i]
		}
	}
	return nil
}

func (r *Record) HasOpenSession() bool {
	return r.OpenSession() != nil
}

// AppendSession opens a new session at the given instant. Callers must have
// established that no session is currently open.
func (r *Record) AppendSession(checkIn time.Time) {
	r.Sessions = append(r.Sessions, Session{CheckIn: checkIn})
	r.SyncLegacyTimes()
}

// CloseOpenSession closes the open session at the given instant and reports
// whether there was one to close.
func (r *Record) CloseOpenSession(at time.Time) bool {
	open := r.OpenSession()
	if open == nil {
		return false
	}
	closedAt := at
	open.CheckOut = &closedAt
	r.SyncLegacyTimes()
	return true
}

// SyncLegacyTimes refreshes the scalar mirrors from the session sequence.
func (r *Record) SyncLegacyTimes() {
	r.CheckInTime = nil
	r.CheckOutTime = nil
	if len(r.Sessions) == 0 {
		return
	}
	first := r.Sessions[0].CheckIn
	r.CheckInTime = &first
	for i := len(r.Sessions) - 1; i >= 0; i-- {
		if r.Sessions[i].CheckOut != nil {
			r.CheckOutTime = r.Sessions[i].CheckOut
			return
		}
	}
}

// WorkedDuration sums the record's session durations. An open session counts
// up to now, but never past the day's cutoff.
func (r *Record) WorkedDuration(now time.Time, cutoff time.Time) time.Duration {
	var total time.Duration
	for _, s := range r.Sessions {
		end := now
		if s.CheckOut != nil {
			end = *s.CheckOut
		} else if end.After(cutoff) {
			end = cutoff
		}
		if end.After(s.CheckIn) {
			total += end.Sub(s.CheckIn)
		}
	}
	return total
}
