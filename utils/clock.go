package utils

import (
	"fmt"
	"time"
)

// ReferenceTimezone is the fixed timezone used to decide "today" and to format
// displayed start times. All persisted timestamps are in this zone.
const ReferenceTimezone = "US/Eastern"

// Clock resolves "now" and "today" in a fixed reference timezone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock loads the reference timezone. Fails only if the tz database is
// missing the zone.
func NewClock() (*Clock, error) {
	return NewClockIn(ReferenceTimezone)
}

// NewClockIn loads an arbitrary zone; used by tests.
func NewClockIn(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("clock: load timezone %q: %w", tz, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFrozenClock returns a Clock pinned to a fixed instant; used by tests.
func NewFrozenClock(at time.Time, loc *time.Location) *Clock {
	return &Clock{loc: loc, now: func() time.Time { return at }}
}

// Location returns the reference timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current instant in the reference timezone.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// TodayDate returns today's calendar date as YYYY-MM-DD in the reference timezone.
func (c *Clock) TodayDate() string { return c.Now().Format("2006-01-02") }

// Timestamp returns the current instant as YYYYMMDD_HHMMSS, used in filenames.
func (c *Clock) Timestamp() string { return c.Now().Format("20060102_150405") }

// ISO returns the current instant in ISO-8601 with offset, used in persisted rows.
func (c *Clock) ISO() string { return c.Now().Format(time.RFC3339) }
