package models

import (
	"github.com/uptrace/bun"
)

// Task is the static catalog row; seeded at startup, immutable at runtime.
type Task struct {
	bun.BaseModel `bun:"table:task"`
	ID            string     `bun:"id,pk" json:"id"`
	Key           string     `bun:"key,unique" json:"key"`
	MaxPerDay     int        `bun:"max_per_day" json:"max_per_day"`
	RewardAmount  int64      `bun:"reward_amount" json:"reward_amount"`
	RewardType    RewardType `bun:"reward_type" json:"reward_type"`
}

// TaskLog bounds per-day completions; unique on (user_id, task_id, garden_day).
type TaskLog struct {
	bun.BaseModel `bun:"table:user_task_log"`
	ID            string `bun:"id,pk" json:"id"`
	UserID        string `bun:"user_id" json:"user_id"`
	TaskID        string `bun:"task_id" json:"task_id"`
	GardenDay     string `bun:"garden_day" json:"garden_day"`
	Count         int    `bun:"count" json:"count"`
}

type TaskProgress struct {
	Key          string     `json:"key"`
	MaxPerDay    int        `json:"max_per_day"`
	RewardAmount int64      `json:"reward_amount"`
	RewardType   RewardType `json:"reward_type"`
	CurrentCount int        `json:"current_count"`
	IsCompleted  bool       `json:"is_completed"`
}

type TaskCompletion struct {
	TaskKey  string       `json:"task_key"`
	NewCount int          `json:"new_count"`
	Reward   *RewardEvent `json:"reward"`
}
