package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableStreak(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Streak)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetStreak(ctx context.Context, db bun.IDB, userID string) (*models.Streak, error) {
	var streak models.Streak
	err := db.NewSelect().Model(&streak).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func GetStreakForUpdate(ctx context.Context, db bun.IDB, userID string) (*models.Streak, error) {
	var streak models.Streak
	err := db.NewSelect().
		Model(&streak).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func UpsertStreak(ctx context.Context, db bun.IDB, streak *models.Streak) error {
	_, err := db.NewInsert().
		Model(streak).
		On("CONFLICT (user_id) DO UPDATE").
		Set("current_streak = EXCLUDED.current_streak").
		Set("longest_streak = EXCLUDED.longest_streak").
		Set("last_active_day = EXCLUDED.last_active_day").
		Exec(ctx)
	return err
}
