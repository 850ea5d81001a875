package models

import (
	"github.com/uptrace/bun"
)

// ExternalAction guards against replaying the same on-chain transaction hash
// for reward credit; tx_hash is the unique key.
type ExternalAction struct {
	bun.BaseModel `bun:"table:external_action"`
	TxHash        string `bun:"tx_hash,pk" json:"tx_hash"`
	UserID        string `bun:"user_id" json:"user_id"`
	ActionType    string `bun:"action_type" json:"action_type"`
	Verified      bool   `bun:"verified" json:"verified"`
	GardenDay     string `bun:"garden_day" json:"garden_day"`
}
