package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableTaskLog(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.TaskLog)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.TaskLog)(nil)).
		Index("index_task_log_user_task_day").
		Unique().
		IfNotExists().
		Column("user_id", "task_id", "garden_day").
		Exec(ctx)
	return err
}

// EnsureTaskLog creates the zero-count row for (user, task, day) if missing;
// racing creators are serialized by the unique index.
func EnsureTaskLog(ctx context.Context, db bun.IDB, log *models.TaskLog) error {
	_, err := db.NewInsert().
		Model(log).
		On("CONFLICT (user_id, task_id, garden_day) DO NOTHING").
		Exec(ctx)
	return err
}

func GetTaskLogForUpdate(ctx context.Context, db bun.IDB, userID, taskID, day string) (*models.TaskLog, error) {
	var log models.TaskLog
	err := db.NewSelect().
		Model(&log).
		Where("user_id = ?", userID).
		Where("task_id = ?", taskID).
		Where("garden_day = ?", day).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func IncrementTaskLog(ctx context.Context, db bun.IDB, log *models.TaskLog) error {
	log.Count++
	_, err := db.NewUpdate().
		Model(log).
		Set("count = ?", log.Count).
		WherePK().
		Exec(ctx)
	return err
}

func GetTaskLogsForDay(ctx context.Context, db bun.IDB, userID, day string) ([]*models.TaskLog, error) {
	var logs []*models.TaskLog
	err := db.NewSelect().
		Model(&logs).
		Where("user_id = ?", userID).
		Where("garden_day = ?", day).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
