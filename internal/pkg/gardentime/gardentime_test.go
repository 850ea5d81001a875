package gardentime_test

import (
	"testing"
	"time"

	"ziglet/internal/pkg/gardentime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc     string
		Instant  time.Time
		Expected string
	}{
		{
			Desc:     "plain utc",
			Instant:  time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			Expected: "2024-01-01",
		},
		{
			Desc:     "just before midnight",
			Instant:  time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC),
			Expected: "2024-01-01",
		},
		{
			Desc:     "non-utc zone normalized",
			Instant:  time.Date(2024, 1, 1, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			Expected: "2024-01-02",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Expected, gardentime.Day(tc.Instant))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc     string
		A, B     string
		Expected int
	}{
		{Desc: "same day", A: "2024-01-01", B: "2024-01-01", Expected: 0},
		{Desc: "consecutive", A: "2024-01-01", B: "2024-01-02", Expected: 1},
		{Desc: "reverse order is absolute", A: "2024-01-02", B: "2024-01-01", Expected: 1},
		{Desc: "gap", A: "2024-01-01", B: "2024-01-06", Expected: 5},
		{Desc: "across month boundary", A: "2024-01-31", B: "2024-02-01", Expected: 1},
		{Desc: "across leap day", A: "2024-02-28", B: "2024-03-01", Expected: 2},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Expected, gardentime.DaysBetween(tc.A, tc.B))
		})
	}
}

func TestNonceExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	exp := gardentime.NonceExpiry(now, 5*time.Minute)
	require.Equal(t, now.Add(5*time.Minute), exp)
}

func TestFixedClock(t *testing.T) {
	t.Parallel()
	instant := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := gardentime.FixedClock{Instant: instant}
	assert.Equal(t, instant, clock.Now())
	assert.Equal(t, "2024-01-01", gardentime.Day(clock.Now()))
}
