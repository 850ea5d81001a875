package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// FaucetProvider transfers tokens to a wallet address outside this system's
// direct control and returns the provider's transaction reference.
type FaucetProvider interface {
	Drip(ctx context.Context, address string, amount int64) (string, error)
}

// TxChecker reports whether an on-chain transaction hash is valid and settled.
type TxChecker interface {
	CheckTx(ctx context.Context, txHash string) (bool, error)
}
