package classsession

import (
	"time"

	"github.com/studiofit/attendance-backend-go/internal/pkg/timepolicy"
)

// Class is a scheduled class a trainer can be assigned to. DurationHours is
// the configured length; the effective session cap is min(duration, 2h).
type Class struct {
	ID             string
	OrganizationID string
	Name           string
	DurationHours  float64
}

// Record is one trainer's attendance for one class on one date.
type Record struct {
	ID             string
	TrainerID      string
	ClassID        string
	OrganizationID string
	Date           time.Time
	CheckInTime    time.Time
	CheckOutTime   *time.Time
	AutoCheckout   bool

	// Joined from the class row for cutoff derivation.
	DurationHours float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveCutoff is the instant the session is considered ended even
// without a recorded check-out.
func (r *Record) EffectiveCutoff() time.Time {
	return timepolicy.ClassCutoff(r.CheckInTime, r.DurationHours)
}

// EffectivelyActive reports whether the session is still live at the given
// instant: no check-out recorded and the cutoff not yet reached. End-state is
// derived lazily at read time, no sweep marks class sessions ended.
func (r *Record) EffectivelyActive(now time.Time) bool {
	return r.CheckOutTime == nil && now.Before(r.EffectiveCutoff())
}
