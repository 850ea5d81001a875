package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyState is the one-row-per-(user, day) visit record. The unique key on
// (user_id, garden_day) is the idempotency guard for "first visit of the day".
type DailyState struct {
	bun.BaseModel      `bun:"table:user_daily_state"`
	ID                 string    `bun:"id,pk" json:"id"`
	UserID             string    `bun:"user_id" json:"user_id"`
	GardenDay          string    `bun:"garden_day" json:"garden_day"`
	VisitedAt          time.Time `bun:"visited_at" json:"visited_at"`
	LoginRewardClaimed bool      `bun:"login_reward_claimed" json:"login_reward_claimed"`
}

type GrowthState struct {
	bun.BaseModel `bun:"table:garden_state"`
	UserID        string `bun:"user_id,pk" json:"user_id"`
	GrowthPoints  int64  `bun:"growth_points" json:"growth_points"`
	LastGrowthDay string `bun:"last_growth_day" json:"last_growth_day"`
}

type GardenState struct {
	Day        string       `json:"day"`
	DailyVisit *DailyState  `json:"daily_visit"`
	Growth     *GrowthState `json:"growth"`
	Streak     *Streak      `json:"streak"`
}
