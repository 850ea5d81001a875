package services_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziglet/internal/models"
	"ziglet/internal/services"
)

func ledgerFixture(n int) []*models.RewardEvent {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := make([]*models.RewardEvent, 0, n)
	// newest-first, the order the datastore returns
	for i := 0; i < n; i++ {
		events = append(events, &models.RewardEvent{
			ID:        fmt.Sprintf("evt-%03d", n-i),
			UserID:    "u1",
			Source:    models.RewardSourceTask,
			Amount:    int64(i + 1),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return events
}

func TestCutHistoryPage(t *testing.T) {
	t.Run("short page has no cursor", func(t *testing.T) {
		events := ledgerFixture(5)
		items, next := services.CutHistoryPage(events, 10)
		assert.Len(t, items, 5)
		assert.Empty(t, next)
	})

	t.Run("exactly full page has no cursor", func(t *testing.T) {
		events := ledgerFixture(10)
		items, next := services.CutHistoryPage(events, 10)
		assert.Len(t, items, 10)
		assert.Empty(t, next)
	})

	t.Run("overfetched page yields the extra event as cursor", func(t *testing.T) {
		events := ledgerFixture(11)
		items, next := services.CutHistoryPage(events, 10)
		require.Len(t, items, 10)
		assert.Equal(t, events[10].ID, next)
		assert.NotContains(t, items, events[10])
	})

	t.Run("empty ledger", func(t *testing.T) {
		items, next := services.CutHistoryPage(nil, 10)
		assert.Empty(t, items)
		assert.Empty(t, next)
	})
}

// The cursor lookup is scoped to the requesting user, so a cursor naming
// another user's event id reads as unknown and is rejected as invalid.
func TestHistoryCursorScopedToUser(t *testing.T) {
	injector, mock := newTestContainer(t)
	serviceReward, err := do.Invoke[*services.ServiceReward](injector)
	require.NoError(t, err)

	// the lookup must carry both the event id and the caller's user id
	mock.ExpectQuery(`re\.id = 'evt-foreign'.*re\.user_id = 'user-a'`).
		WillReturnError(sql.ErrNoRows)

	history, err := serviceReward.History(context.Background(), "user-a", "evt-foreign", 10)
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid cursor")
	assert.Nil(t, history)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Walks 25 events in pages of 10 the way History does: each fetch starts at the
// cursor row and overfetches by one. Every event must appear exactly once.
func TestCutHistoryPageWalk(t *testing.T) {
	all := ledgerFixture(25)
	limit := 10

	indexOf := func(id string) int {
		for i, event := range all {
			if event.ID == id {
				return i
			}
		}
		t.Fatalf("unknown cursor %q", id)
		return -1
	}

	fetch := func(cursor string) []*models.RewardEvent {
		start := 0
		if cursor != "" {
			start = indexOf(cursor)
		}
		end := start + limit + 1
		if end > len(all) {
			end = len(all)
		}
		return all[start:end]
	}

	var seen []*models.RewardEvent
	cursor := ""
	pages := 0
	for {
		items, next := services.CutHistoryPage(fetch(cursor), limit)
		seen = append(seen, items...)
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	require.Equal(t, 3, pages)
	require.Len(t, seen, len(all))
	for i, event := range all {
		assert.Equal(t, event.ID, seen[i].ID, "position %d", i)
	}
}
