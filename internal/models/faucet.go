package models

import (
	"time"

	"github.com/uptrace/bun"
)

type FaucetStatus string

const (
	FaucetStatusPending FaucetStatus = "PENDING"
	FaucetStatusSent    FaucetStatus = "SENT"
	FaucetStatusFailed  FaucetStatus = "FAILED"
)

// FaucetRequest tracks one out-of-band payout attempt. SENT and FAILED are
// terminal; a row never leaves a terminal state.
type FaucetRequest struct {
	bun.BaseModel `bun:"table:faucet_request"`
	ID            string       `bun:"id,pk" json:"id"`
	UserID        string       `bun:"user_id" json:"user_id"`
	RewardEventID string       `bun:"reward_event_id" json:"reward_event_id"`
	Status        FaucetStatus `bun:"status" json:"status"`
	TxHash        *string      `bun:"tx_hash" json:"tx_hash,omitempty"`
	CreatedAt     time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time    `bun:"updated_at" json:"updated_at"`
}
