package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"ziglet/internal/datastore"
	"ziglet/internal/models"
	"ziglet/internal/pkg/caching"
	"ziglet/internal/pkg/gardentime"
)

var ErrTaskLimitReached = errors.New("task limit reached for today")

type ServiceTask struct {
	container     *do.Injector
	db            *bun.DB
	cache         caching.Cache
	clock         gardentime.Clock
	serviceReward *ServiceReward
}

func NewServiceTask(container *do.Injector) (*ServiceTask, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
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

	return &ServiceTask{container, db, cache, clock, serviceReward}, nil
}

// DefaultTasks is the seed catalog. Seeding is conflict-free on key, so
// re-running it never duplicates or overwrites.
func DefaultTasks() []*models.Task {
	return []*models.Task{
		{ID: uuid.NewString(), Key: "water_grass", MaxPerDay: 1, RewardAmount: 5, RewardType: models.RewardTypeZig},
		{ID: uuid.NewString(), Key: "swap", MaxPerDay: 5, RewardAmount: 10, RewardType: models.RewardTypeZig},
		{ID: uuid.NewString(), Key: "share", MaxPerDay: 1, RewardAmount: 2, RewardType: models.RewardTypeZig},
	}
}

func (service *ServiceTask) SeedDefaults(ctx context.Context) error {
	for _, task := range DefaultTasks() {
		if err := datastore.SeedTask(ctx, service.db, task); err != nil {
			return err
		}
	}
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyTaskCatalog())
	return nil
}

func (service *ServiceTask) catalog(ctx context.Context) ([]*models.Task, error) {
	return caching.UseCache(ctx, service.cache, DBKeyTaskCatalog(), CACHE_TTL_TASK_CATALOG, func() ([]*models.Task, error) {
		return datastore.GetTasks(ctx, service.db)
	})
}

// List returns the catalog merged with the user's progress for today.
func (service *ServiceTask) List(ctx context.Context, user *models.User) ([]*models.TaskProgress, error) {
	today := gardentime.Day(service.clock.Now())

	tasks, err := service.catalog(ctx)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	logs, err := datastore.GetTaskLogsForDay(ctx, service.db, user.ID, today)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return MergeTaskProgress(tasks, logs), nil
}

// Complete counts one completion of the task for today and issues its reward
// in the same transaction. The FOR UPDATE read on the per-day log makes the
// cap exact under concurrent completions.
func (service *ServiceTask) Complete(ctx context.Context, user *models.User, key string) (*models.TaskCompletion, error) {
	task, err := datastore.FindTaskByKey(ctx, service.db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("task not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	today := gardentime.Day(service.clock.Now())

	var completion *models.TaskCompletion
	err = service.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		seed := &models.TaskLog{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			TaskID:    task.ID,
			GardenDay: today,
		}
		if err := datastore.EnsureTaskLog(ctx, tx, seed); err != nil {
			return err
		}

		taskLog, err := datastore.GetTaskLogForUpdate(ctx, tx, user.ID, task.ID, today)
		if err != nil {
			return err
		}
		if taskLog.Count >= task.MaxPerDay {
			return errorx.Wrap(ErrTaskLimitReached, errorx.Invalid)
		}

		if err := datastore.IncrementTaskLog(ctx, tx, taskLog); err != nil {
			return err
		}

		reward, err := service.serviceReward.Issue(ctx, tx, user.ID, models.RewardSourceTask, task.RewardType, task.RewardAmount, today)
		if err != nil {
			return err
		}

		completion = &models.TaskCompletion{
			TaskKey:  task.Key,
			NewCount: taskLog.Count,
			Reward:   reward,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// only after commit; a rolled-back reward must never reach the faucet
	service.serviceReward.DispatchFaucet(completion.Reward)

	return completion, nil
}

// MergeTaskProgress joins catalog rows with today's logs; tasks without a log
// report zero completions.
func MergeTaskProgress(tasks []*models.Task, logs []*models.TaskLog) []*models.TaskProgress {
	counts := make(map[string]int, len(logs))
	for _, log := range logs {
		counts[log.TaskID] = log.Count
	}

	progress := make([]*models.TaskProgress, 0, len(tasks))
	for _, task := range tasks {
		count := counts[task.ID]
		progress = append(progress, &models.TaskProgress{
			Key:          task.Key,
			MaxPerDay:    task.MaxPerDay,
			RewardAmount: task.RewardAmount,
			RewardType:   task.RewardType,
			CurrentCount: count,
			IsCompleted:  count >= task.MaxPerDay,
		})
	}
	return progress
}
