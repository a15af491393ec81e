// Package interval provides half-open time-of-day intervals used by the
// schedulers for conflict detection. An interval [Start, End) does not
// include its end instant, so a booking ending at 10:00 never conflicts
// with one starting at 10:00.
package interval

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBadTimeOfDay = errors.New("time of day must be in HH:MM format")
	ErrBadRange     = errors.New("end time must be after start time")
)

// TimeOfDay is minutes since midnight (0..1439).
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h) into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeOfDay, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String formats the time of day as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At anchors the time of day onto a calendar date in the date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Interval is a half-open [Start, End) range within a single calendar day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// New builds an interval, rejecting degenerate or inverted ranges.
func New(start, end TimeOfDay) (Interval, error) {
	if end <= start {
		return Interval{}, ErrBadRange
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.End-i.Start) * time.Minute
}

// Overlaps reports whether two intervals on the same date share any instant.
// Half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether the other interval lies fully inside i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
