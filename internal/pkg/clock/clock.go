package clock

import "time"

// Clock is the single source of "now" for the engine. Every service receives
// one through its constructor so temporal boundaries are deterministic in
// tests and consistently zoned in production.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
	// Location returns the organization-local time zone.
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

func NewSystemClock(timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// Fixed returns a clock pinned to a single instant. Used in tests.
func Fixed(now time.Time, loc *time.Location) Clock {
	return &fixedClock{now: now.UTC(), loc: loc}
}

type fixedClock struct {
	now time.Time
	loc *time.Location
}

func (c *fixedClock) Now() time.Time           { return c.now }
func (c *fixedClock) Location() *time.Location { return c.loc }
