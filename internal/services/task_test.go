package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ziglet/internal/models"
	"ziglet/internal/pkg/gardentime"
	"ziglet/internal/services"
)

func TestMergeTaskProgress(t *testing.T) {
	tasks := []*models.Task{
		{ID: "t-water", Key: "water_grass", MaxPerDay: 1, RewardAmount: 5, RewardType: models.RewardTypeZig},
		{ID: "t-swap", Key: "swap", MaxPerDay: 5, RewardAmount: 10, RewardType: models.RewardTypeZig},
		{ID: "t-share", Key: "share", MaxPerDay: 1, RewardAmount: 2, RewardType: models.RewardTypeZig},
	}

	t.Run("no logs means zero progress", func(t *testing.T) {
		progress := services.MergeTaskProgress(tasks, nil)
		require.Len(t, progress, 3)
		for _, p := range progress {
			assert.Zero(t, p.CurrentCount)
			assert.False(t, p.IsCompleted)
		}
	})

	t.Run("logs merge by task id", func(t *testing.T) {
		logs := []*models.TaskLog{
			{TaskID: "t-water", Count: 1},
			{TaskID: "t-swap", Count: 3},
		}
		progress := services.MergeTaskProgress(tasks, logs)
		require.Len(t, progress, 3)

		byKey := map[string]*models.TaskProgress{}
		for _, p := range progress {
			byKey[p.Key] = p
		}

		assert.Equal(t, 1, byKey["water_grass"].CurrentCount)
		assert.True(t, byKey["water_grass"].IsCompleted)

		assert.Equal(t, 3, byKey["swap"].CurrentCount)
		assert.False(t, byKey["swap"].IsCompleted)

		assert.Zero(t, byKey["share"].CurrentCount)
		assert.False(t, byKey["share"].IsCompleted)
	})

	t.Run("catalog order is preserved", func(t *testing.T) {
		progress := services.MergeTaskProgress(tasks, nil)
		require.Len(t, progress, 3)
		assert.Equal(t, "water_grass", progress[0].Key)
		assert.Equal(t, "swap", progress[1].Key)
		assert.Equal(t, "share", progress[2].Key)
	})
}

// The per-day cap is enforced inside the completion transaction: at the cap
// the whole unit rolls back and no reward row is ever written.
func TestServiceTaskComplete(t *testing.T) {
	user := &models.User{ID: "u1", ZigAddress: "zig1wallet"}
	today := gardentime.Day(testInstant)

	taskRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "key", "max_per_day", "reward_amount", "reward_type"}).
			AddRow("t-water", "water_grass", 1, int64(5), "ZIG")
	}
	logRow := func(count int) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "user_id", "task_id", "garden_day", "count"}).
			AddRow("log-1", "u1", "t-water", today, count)
	}

	t.Run("at the cap the transaction rolls back with no reward", func(t *testing.T) {
		injector, mock := newTestContainer(t)
		serviceTask, err := do.Invoke[*services.ServiceTask](injector)
		require.NoError(t, err)

		mock.ExpectQuery(`FROM "task"`).WillReturnRows(taskRow())
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "user_task_log"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(logRow(1))
		mock.ExpectRollback()

		completion, err := serviceTask.Complete(context.Background(), user, "water_grass")
		require.Error(t, err)
		assert.ErrorContains(t, err, "task limit reached")
		assert.Nil(t, completion)
		// no UPDATE of the count and no reward_event INSERT were issued
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("below the cap count and reward commit together", func(t *testing.T) {
		injector, mock := newTestContainer(t)
		serviceTask, err := do.Invoke[*services.ServiceTask](injector)
		require.NoError(t, err)

		mock.ExpectQuery(`FROM "task"`).WillReturnRows(taskRow())
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "user_task_log"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(logRow(0))
		mock.ExpectExec(`SET count = 1`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "reward_event"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		completion, err := serviceTask.Complete(context.Background(), user, "water_grass")
		require.NoError(t, err)
		require.NotNil(t, completion)
		assert.Equal(t, "water_grass", completion.TaskKey)
		assert.Equal(t, 1, completion.NewCount)
		require.NotNil(t, completion.Reward)
		assert.Equal(t, models.RewardSourceTask, completion.Reward.Source)
		assert.EqualValues(t, 5, completion.Reward.Amount)
		assert.Equal(t, today, completion.Reward.GardenDay)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown task key is not-found", func(t *testing.T) {
		injector, mock := newTestContainer(t)
		serviceTask, err := do.Invoke[*services.ServiceTask](injector)
		require.NoError(t, err)

		mock.ExpectQuery(`FROM "task"`).WillReturnError(sql.ErrNoRows)

		completion, err := serviceTask.Complete(context.Background(), user, "mow_lawn")
		require.Error(t, err)
		assert.ErrorContains(t, err, "task not found")
		assert.Nil(t, completion)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDefaultTasks(t *testing.T) {
	tasks := services.DefaultTasks()
	require.Len(t, tasks, 3)

	byKey := map[string]*models.Task{}
	for _, task := range tasks {
		require.NotEmpty(t, task.ID)
		byKey[task.Key] = task
	}

	assert.Equal(t, 1, byKey["water_grass"].MaxPerDay)
	assert.EqualValues(t, 5, byKey["water_grass"].RewardAmount)
	assert.Equal(t, 5, byKey["swap"].MaxPerDay)
	assert.EqualValues(t, 10, byKey["swap"].RewardAmount)
	assert.Equal(t, 1, byKey["share"].MaxPerDay)
	assert.EqualValues(t, 2, byKey["share"].RewardAmount)
}
