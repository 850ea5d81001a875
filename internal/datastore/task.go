package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableTask(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Task)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.Task)(nil)).
		Index("index_task_key").
		Unique().
		IfNotExists().
		Column("key").
		Exec(ctx)
	return err
}

// SeedTask inserts a catalog row if its key is not present; existing rows are
// left untouched so runtime state never changes a deployed catalog.
func SeedTask(ctx context.Context, db bun.IDB, task *models.Task) error {
	_, err := db.NewInsert().
		Model(task).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	return err
}

func FindTaskByKey(ctx context.Context, db bun.IDB, key string) (*models.Task, error) {
	var task models.Task
	err := db.NewSelect().Model(&task).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func GetTasks(ctx context.Context, db bun.IDB) ([]*models.Task, error) {
	var tasks []*models.Task
	err := db.NewSelect().Model(&tasks).Order("key ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
