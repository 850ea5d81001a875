package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RewardSource string

const (
	RewardSourceLogin     RewardSource = "LOGIN"
	RewardSourceTask      RewardSource = "TASK"
	RewardSourceStreak    RewardSource = "STREAK"
	RewardSourceMilestone RewardSource = "MILESTONE"
)

type RewardType string

const (
	RewardTypeZig    RewardType = "ZIG"
	RewardTypeFaucet RewardType = "FAUCET"
)

// RewardEvent is the ledger of record: append-only, never mutated or deleted.
type RewardEvent struct {
	bun.BaseModel `bun:"table:reward_event,alias:re"`
	ID            string       `bun:"id,pk" json:"id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	Source        RewardSource `bun:"source" json:"source"`
	RewardType    RewardType   `bun:"reward_type" json:"reward_type"`
	Amount        int64        `bun:"amount" json:"amount"`
	GardenDay     string       `bun:"garden_day" json:"garden_day"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`

	FaucetRequest *FaucetRequest `bun:"rel:has-one,join:id=reward_event_id" json:"faucet_request,omitempty"`
}

type RewardHistory struct {
	Items      []*RewardEvent `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
