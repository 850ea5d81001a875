package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableExternalAction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ExternalAction)(nil)).IfNotExists().Exec(ctx)
	return err
}

func FindExternalAction(ctx context.Context, db bun.IDB, txHash string) (*models.ExternalAction, error) {
	var action models.ExternalAction
	err := db.NewSelect().Model(&action).Where("tx_hash = ?", txHash).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// InsertExternalAction records the hash and reports whether this caller won the
// insert; the primary key on tx_hash is the double-credit guard.
func InsertExternalAction(ctx context.Context, db bun.IDB, action *models.ExternalAction) (bool, error) {
	res, err := db.NewInsert().
		Model(action).
		On("CONFLICT (tx_hash) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
