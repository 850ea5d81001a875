package models

import (
	"github.com/uptrace/bun"
)

type Streak struct {
	bun.BaseModel `bun:"table:user_streak"`
	UserID        string `bun:"user_id,pk" json:"user_id"`
	CurrentStreak int    `bun:"current_streak" json:"current_streak"`
	LongestStreak int    `bun:"longest_streak" json:"longest_streak"`
	LastActiveDay string `bun:"last_active_day" json:"last_active_day"`
}
