package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"ziglet/internal/datastore"
	"ziglet/internal/models"
	"ziglet/internal/pkg/gardentime"
)

type ServiceReward struct {
	container     *do.Injector
	db            *bun.DB
	clock         gardentime.Clock
	serviceFaucet *ServiceFaucet
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[gardentime.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceFaucet, err := do.Invoke[*ServiceFaucet](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, db, clock, serviceFaucet}, nil
}

// Issue appends a reward to the ledger inside the caller's transaction. It
// never dispatches faucet requests itself; callers hand FAUCET events to
// DispatchFaucet only after their transaction commits.
func (service *ServiceReward) Issue(ctx context.Context, db bun.IDB, userID string, source models.RewardSource, rewardType models.RewardType, amount int64, day string) (*models.RewardEvent, error) {
	event := &models.RewardEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Source:     source,
		RewardType: rewardType,
		Amount:     amount,
		GardenDay:  day,
		CreatedAt:  service.clock.Now(),
	}
	if err := datastore.InsertRewardEvent(ctx, db, event); err != nil {
		return nil, err
	}

	log.Printf("[rewards] user %s earned %d (%s) from %s", userID, amount, rewardType, source)
	return event, nil
}

// DispatchFaucet hands committed FAUCET events to the out-of-band dispatcher.
// Non-faucet events are ignored, so callers can pass whatever they issued.
func (service *ServiceReward) DispatchFaucet(events ...*models.RewardEvent) {
	for _, event := range events {
		if event == nil || event.RewardType != models.RewardTypeFaucet {
			continue
		}
		service.serviceFaucet.Enqueue(FaucetJob{
			UserID:        event.UserID,
			RewardEventID: event.ID,
			Amount:        event.Amount,
		})
	}
}

// History pages the ledger newest-first. The cursor is the id of the first
// event of the requested page, as returned in the previous page's next_cursor.
func (service *ServiceReward) History(ctx context.Context, userID, cursor string, limit int) (*models.RewardHistory, error) {
	if limit <= 0 {
		limit = DEFAULT_HISTORY_LIMIT
	}
	if limit > MAX_HISTORY_LIMIT {
		limit = MAX_HISTORY_LIMIT
	}

	events, err := datastore.GetRewardEventsPage(ctx, service.db, userID, cursor, limit+1)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("invalid cursor"), errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	items, next := CutHistoryPage(events, limit)
	return &models.RewardHistory{Items: items, NextCursor: next}, nil
}

// CutHistoryPage trims an over-fetched page of limit+1 events down to limit.
// When the extra event exists its id becomes the cursor for the next page; an
// empty cursor means the history is exhausted.
func CutHistoryPage(events []*models.RewardEvent, limit int) ([]*models.RewardEvent, string) {
	if len(events) <= limit {
		return events, ""
	}
	return events[:limit], events[limit].ID
}
