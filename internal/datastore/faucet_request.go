package datastore

import (
	"context"
	"time"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableFaucetRequest(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.FaucetRequest)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.FaucetRequest)(nil)).
		Index("index_faucet_request_reward_event").
		IfNotExists().
		Column("reward_event_id").
		Exec(ctx)
	return err
}

func CreateFaucetRequest(ctx context.Context, db bun.IDB, request *models.FaucetRequest) error {
	_, err := db.NewInsert().Model(request).Exec(ctx)
	return err
}

// FinishFaucetRequest moves a PENDING request to a terminal state. The status
// guard keeps terminal states final even if a dispatch is ever replayed.
func FinishFaucetRequest(ctx context.Context, db bun.IDB, requestID string, status models.FaucetStatus, txHash *string, at time.Time) error {
	_, err := db.NewUpdate().
		Model((*models.FaucetRequest)(nil)).
		Set("status = ?", status).
		Set("tx_hash = ?", txHash).
		Set("updated_at = ?", at).
		Where("id = ?", requestID).
		Where("status = ?", models.FaucetStatusPending).
		Exec(ctx)
	return err
}
