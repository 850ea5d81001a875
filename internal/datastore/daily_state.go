package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDailyState(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DailyState)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	// the idempotency guard for "first visit of the day"
	_, err = db.NewCreateIndex().
		Model((*models.DailyState)(nil)).
		Index("index_daily_state_user_day").
		Unique().
		IfNotExists().
		Column("user_id", "garden_day").
		Exec(ctx)
	return err
}

// InsertDailyState creates the (user, day) row and reports whether this caller
// created it. Racing visitors are serialized by the unique index: the loser
// sees created=false and must not trigger first-visit effects.
func InsertDailyState(ctx context.Context, db bun.IDB, state *models.DailyState) (bool, error) {
	res, err := db.NewInsert().
		Model(state).
		On("CONFLICT (user_id, garden_day) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func GetDailyState(ctx context.Context, db bun.IDB, userID, day string) (*models.DailyState, error) {
	var state models.DailyState
	err := db.NewSelect().
		Model(&state).
		Where("user_id = ?", userID).
		Where("garden_day = ?", day).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// GetDailyStateForUpdate locks the row for the duration of the surrounding
// transaction; used for the login-reward claim check-and-set.
func GetDailyStateForUpdate(ctx context.Context, db bun.IDB, userID, day string) (*models.DailyState, error) {
	var state models.DailyState
	err := db.NewSelect().
		Model(&state).
		Where("user_id = ?", userID).
		Where("garden_day = ?", day).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func SetLoginRewardClaimed(ctx context.Context, db bun.IDB, state *models.DailyState) error {
	state.LoginRewardClaimed = true
	_, err := db.NewUpdate().
		Model(state).
		Set("login_reward_claimed = TRUE").
		WherePK().
		Exec(ctx)
	return err
}
