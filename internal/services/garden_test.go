package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziglet/internal/models"
	"ziglet/internal/services"
)

func TestNextStreak(t *testing.T) {
	t.Run("first activity starts at one", func(t *testing.T) {
		next := services.NextStreak(nil, "u1", "2026-03-01")
		require.NotNil(t, next)
		assert.Equal(t, 1, next.CurrentStreak)
		assert.Equal(t, 1, next.LongestStreak)
		assert.Equal(t, "2026-03-01", next.LastActiveDay)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		prev := &models.Streak{UserID: "u1", CurrentStreak: 3, LongestStreak: 5, LastActiveDay: "2026-03-01"}
		assert.Nil(t, services.NextStreak(prev, "u1", "2026-03-01"))
	})

	tests := []struct {
		name        string
		prev        *models.Streak
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "consecutive day extends the run",
			prev:        &models.Streak{UserID: "u1", CurrentStreak: 2, LongestStreak: 2, LastActiveDay: "2026-03-01"},
			today:       "2026-03-02",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "one missed day resets to one",
			prev:        &models.Streak{UserID: "u1", CurrentStreak: 6, LongestStreak: 6, LastActiveDay: "2026-03-01"},
			today:       "2026-03-03",
			wantCurrent: 1,
			wantLongest: 6,
		},
		{
			name:        "long gap resets to one",
			prev:        &models.Streak{UserID: "u1", CurrentStreak: 29, LongestStreak: 29, LastActiveDay: "2026-03-01"},
			today:       "2026-04-15",
			wantCurrent: 1,
			wantLongest: 29,
		},
		{
			name:        "longest never decreases",
			prev:        &models.Streak{UserID: "u1", CurrentStreak: 2, LongestStreak: 10, LastActiveDay: "2026-03-01"},
			today:       "2026-03-02",
			wantCurrent: 3,
			wantLongest: 10,
		},
		{
			name:        "month boundary counts as consecutive",
			prev:        &models.Streak{UserID: "u1", CurrentStreak: 4, LongestStreak: 4, LastActiveDay: "2026-02-28"},
			today:       "2026-03-01",
			wantCurrent: 5,
			wantLongest: 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := services.NextStreak(tc.prev, tc.prev.UserID, tc.today)
			require.NotNil(t, next)
			assert.Equal(t, tc.wantCurrent, next.CurrentStreak)
			assert.Equal(t, tc.wantLongest, next.LongestStreak)
			assert.Equal(t, tc.today, next.LastActiveDay)
		})
	}
}

func TestNextStreakDailyWalk(t *testing.T) {
	days := []string{"2026-03-01", "2026-03-02", "2026-03-03"}

	var prev *models.Streak
	for i, day := range days {
		next := services.NextStreak(prev, "u1", day)
		require.NotNil(t, next)
		assert.Equal(t, i+1, next.CurrentStreak)
		prev = next
	}

	// gap after the run
	next := services.NextStreak(prev, "u1", "2026-03-10")
	require.NotNil(t, next)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 3, next.LongestStreak)
}

func TestStreakMilestoneReward(t *testing.T) {
	tests := []struct {
		streak     int
		wantAmount int64
		wantHit    bool
	}{
		{1, 0, false},
		{6, 0, false},
		{7, 50, true},
		{8, 0, false},
		{14, 100, true},
		{15, 0, false},
		{30, 500, true},
		{31, 0, false},
	}

	for _, tc := range tests {
		amount, ok := services.StreakMilestoneReward(tc.streak)
		assert.Equal(t, tc.wantHit, ok, "streak %d", tc.streak)
		assert.Equal(t, tc.wantAmount, amount, "streak %d", tc.streak)
	}
}
