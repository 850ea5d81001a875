package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGrowthState(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.GrowthState)(nil)).IfNotExists().Exec(ctx)
	return err
}

// IncrementGrowth adds points to the monotonic accumulator, creating the row on
// first growth.
func IncrementGrowth(ctx context.Context, db bun.IDB, userID string, points int64, day string) error {
	state := &models.GrowthState{
		UserID:        userID,
		GrowthPoints:  points,
		LastGrowthDay: day,
	}
	_, err := db.NewInsert().
		Model(state).
		On("CONFLICT (user_id) DO UPDATE").
		Set("growth_points = garden_state.growth_points + EXCLUDED.growth_points").
		Set("last_growth_day = EXCLUDED.last_growth_day").
		Exec(ctx)
	return err
}

func GetGrowthState(ctx context.Context, db bun.IDB, userID string) (*models.GrowthState, error) {
	var state models.GrowthState
	err := db.NewSelect().Model(&state).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
