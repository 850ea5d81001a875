package services

import (
	"fmt"
	"time"
)

const (
	NONCE_MESSAGE_PREFIX = "Sign this message to login to Ziglet Garden: "
	NONCE_TTL            = 5 * time.Minute
	TOKEN_TTL            = 7 * 24 * time.Hour

	GROWTH_POINTS_PER_VISIT = 10
	LOGIN_REWARD_AMOUNT     = 10

	EXTERNAL_ACTION_SWAP          = "SWAP"
	EXTERNAL_SWAP_REWARD_AMOUNT   = 50
	DEFAULT_HISTORY_LIMIT         = 20
	MAX_HISTORY_LIMIT             = 100

	RATE_LIMIT_NONCE_PER_MINUTE           = 5
	RATE_LIMIT_EXTERNAL_VERIFY_PER_MINUTE = 10

	CACHE_TTL_TASK_CATALOG = 15 * time.Minute

	FAUCET_QUEUE_SIZE       = 1024
	FAUCET_WORKER_COUNT     = 4
	FAUCET_DISPATCH_TIMEOUT = 10 * time.Second
)

// streakMilestones pays a one-off bonus when the current streak lands exactly
// on a milestone. Re-crossing after a reset pays again.
var streakMilestones = map[int]int64{
	7:  50,
	14: 100,
	30: 500,
}

func DBKeyTaskCatalog() string {
	return "ziglet:tasks:catalog"
}

func LimitKeyNonce(address string) string {
	return fmt.Sprintf("ziglet:limit:nonce:%s", address)
}

func LimitKeyExternalVerify(userID string) string {
	return fmt.Sprintf("ziglet:limit:external:%s", userID)
}

func LockKeySeedTasks() string {
	return "ziglet:lock:seed-tasks"
}
