// Package gardentime is the time authority for the garden.
// Rule: all times are UTC; the garden day rolls over at 00:00 UTC.
package gardentime

import (
	"time"
)

const DayLayout = "2006-01-02"

// Clock is injected into every engine so tests can simulate day transitions.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// Day returns the garden day of t in YYYY-MM-DD form.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, time.UTC)
}

// DaysBetween returns the absolute number of calendar days between two garden
// days. Malformed input counts as an unbounded gap.
func DaysBetween(a, b string) int {
	ta, err := ParseDay(a)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	tb, err := ParseDay(b)
	if err != nil {
		return int(^uint(0) >> 1)
	}

	diff := tb.Sub(ta)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// NonceExpiry returns the expiry instant for a login nonce issued at now.
func NonceExpiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl).UTC()
}
