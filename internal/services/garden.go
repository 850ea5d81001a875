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

type ServiceGarden struct {
	container     *do.Injector
	db            *bun.DB
	clock         gardentime.Clock
	serviceReward *ServiceReward
}

func NewServiceGarden(container *do.Injector) (*ServiceGarden, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[gardentime.Clock](container)
	if err != nil {
		return nil, err
	}

	serviceReward, err := do.Invoke[*ServiceReward](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGarden{container, db, clock, serviceReward}, nil
}

// Visit records today's visit. The first visit of a garden day grows the
// garden and advances the streak in one transaction; repeat visits return the
// existing state unchanged. The login reward is claimed best-effort afterwards
// so a faulty ledger write can never fail the visit itself.
func (service *ServiceGarden) Visit(ctx context.Context, user *models.User) (*models.DailyState, error) {
	now := service.clock.Now()
	today := gardentime.Day(now)

	state := &models.DailyState{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		GardenDay: today,
		VisitedAt: now,
	}

	var created bool
	err := service.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		created, err = datastore.InsertDailyState(ctx, tx, state)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}

		if err := datastore.IncrementGrowth(ctx, tx, user.ID, GROWTH_POINTS_PER_VISIT, today); err != nil {
			return err
		}
		return service.advanceStreak(ctx, tx, user, today)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if !created {
		existing, err := datastore.GetDailyState(ctx, service.db, user.ID, today)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}
		state = existing
	}

	if !state.LoginRewardClaimed {
		if err := service.claimLoginReward(ctx, user, state); err != nil {
			log.Printf("[garden] login reward for user %s: %v", user.ID, err)
		}
	}

	return state, nil
}

func (service *ServiceGarden) advanceStreak(ctx context.Context, tx bun.Tx, user *models.User, today string) error {
	prev, err := datastore.GetStreakForUpdate(ctx, tx, user.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		prev = nil
	}

	next := NextStreak(prev, user.ID, today)
	if next == nil {
		return nil
	}
	if err := datastore.UpsertStreak(ctx, tx, next); err != nil {
		return err
	}

	if amount, ok := StreakMilestoneReward(next.CurrentStreak); ok {
		_, err := service.serviceReward.Issue(ctx, tx, user.ID, models.RewardSourceStreak, models.RewardTypeZig, amount, today)
		return err
	}
	return nil
}

// claimLoginReward issues the once-per-day login reward; the FOR UPDATE read
// plus claimed flag makes concurrent claimers converge on a single ledger row.
func (service *ServiceGarden) claimLoginReward(ctx context.Context, user *models.User, state *models.DailyState) error {
	err := service.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := datastore.GetDailyStateForUpdate(ctx, tx, user.ID, state.GardenDay)
		if err != nil {
			return err
		}
		if current.LoginRewardClaimed {
			return nil
		}

		if _, err := service.serviceReward.Issue(ctx, tx, user.ID, models.RewardSourceLogin, models.RewardTypeZig, LOGIN_REWARD_AMOUNT, state.GardenDay); err != nil {
			return err
		}
		return datastore.SetLoginRewardClaimed(ctx, tx, current)
	})
	if err != nil {
		return err
	}

	state.LoginRewardClaimed = true
	return nil
}

// GetState is a pure read; it creates nothing, even for brand-new users.
func (service *ServiceGarden) GetState(ctx context.Context, user *models.User) (*models.GardenState, error) {
	today := gardentime.Day(service.clock.Now())

	daily, err := datastore.GetDailyState(ctx, service.db, user.ID, today)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	growth, err := datastore.GetGrowthState(ctx, service.db, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		growth = &models.GrowthState{UserID: user.ID}
	} else if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	streak, err := datastore.GetStreak(ctx, service.db, user.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return &models.GardenState{
		Day:        today,
		DailyVisit: daily,
		Growth:     growth,
		Streak:     streak,
	}, nil
}

// NextStreak computes the streak row after activity on today. A nil result
// means today was already counted. Consecutive days extend the run, any gap
// restarts it at 1, and longest never decreases.
func NextStreak(prev *models.Streak, userID, today string) *models.Streak {
	if prev == nil {
		return &models.Streak{
			UserID:        userID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastActiveDay: today,
		}
	}

	diff := gardentime.DaysBetween(prev.LastActiveDay, today)
	if diff == 0 {
		return nil
	}

	current := 1
	if diff == 1 {
		current = prev.CurrentStreak + 1
	}
	longest := prev.LongestStreak
	if current > longest {
		longest = current
	}

	return &models.Streak{
		UserID:        prev.UserID,
		CurrentStreak: current,
		LongestStreak: longest,
		LastActiveDay: today,
	}
}

func StreakMilestoneReward(current int) (int64, bool) {
	amount, ok := streakMilestones[current]
	return amount, ok
}
