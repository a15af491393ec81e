package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	i, err := New(mustParse(t, start), mustParse(t, end))
	require.NoError(t, err)
	return i
}

func TestParseTimeOfDay(t *testing.T) {
	tod := mustParse(t, "08:30")
	assert.Equal(t, TimeOfDay(510), tod)
	assert.Equal(t, "08:30", tod.String())

	_, err := ParseTimeOfDay("8am")
	assert.ErrorIs(t, err, ErrBadTimeOfDay)

	_, err = ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, ErrBadTimeOfDay)
}

func TestNewRejectsDegenerateRange(t *testing.T) {
	_, err := New(mustParse(t, "10:00"), mustParse(t, "10:00"))
	assert.ErrorIs(t, err, ErrBadRange)

	_, err = New(mustParse(t, "11:00"), mustParse(t, "10:00"))
	assert.ErrorIs(t, err, ErrBadRange)
}

func TestOverlapsHalfOpen(t *testing.T) {
	// Back-to-back intervals share an endpoint but no instant.
	assert.False(t, iv(t, "10:00", "10:30").Overlaps(iv(t, "10:30", "11:00")))
	assert.False(t, iv(t, "10:30", "11:00").Overlaps(iv(t, "10:00", "10:30")))

	assert.True(t, iv(t, "10:00", "10:30").Overlaps(iv(t, "10:15", "10:45")))
	assert.True(t, iv(t, "10:15", "10:45").Overlaps(iv(t, "10:00", "10:30")))

	// Containment overlaps in both directions.
	assert.True(t, iv(t, "09:00", "12:00").Overlaps(iv(t, "10:00", "10:30")))
	assert.True(t, iv(t, "10:00", "10:30").Overlaps(iv(t, "09:00", "12:00")))

	// Disjoint.
	assert.False(t, iv(t, "08:00", "09:00").Overlaps(iv(t, "13:00", "14:00")))
}

func TestContains(t *testing.T) {
	window := iv(t, "08:00", "17:00")
	assert.True(t, window.Contains(iv(t, "08:00", "09:00")))
	assert.True(t, window.Contains(iv(t, "16:00", "17:00")))
	assert.False(t, window.Contains(iv(t, "16:30", "17:30")))
}

func TestAt(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	at := mustParse(t, "09:15").At(date)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC), at)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	b := time.Date(2026, 3, 14, 0, 10, 0, 0, time.UTC)
	c := time.Date(2026, 3, 15, 0, 10, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(a, c, time.UTC))
}
