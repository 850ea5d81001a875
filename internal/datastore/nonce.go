package datastore

import (
	"context"
	"time"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableWalletNonce(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.WalletNonce)(nil)).IfNotExists().Exec(ctx)
	return err
}

// UpsertWalletNonce replaces any outstanding nonce for the address; last writer wins.
func UpsertWalletNonce(ctx context.Context, db bun.IDB, nonce *models.WalletNonce) error {
	_, err := db.NewInsert().
		Model(nonce).
		On("CONFLICT (zig_address) DO UPDATE").
		Set("nonce = EXCLUDED.nonce").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
	return err
}

func FindWalletNonce(ctx context.Context, db bun.IDB, address string) (*models.WalletNonce, error) {
	var nonce models.WalletNonce
	err := db.NewSelect().Model(&nonce).Where("zig_address = ?", address).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &nonce, nil
}

// ConsumeWalletNonce deletes the nonce and reports whether this caller won the
// delete. Under concurrent verifications the first deleter wins; the loser must
// treat the nonce as gone.
func ConsumeWalletNonce(ctx context.Context, db bun.IDB, address string) (bool, error) {
	res, err := db.NewDelete().
		Model((*models.WalletNonce)(nil)).
		Where("zig_address = ?", address).
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

func DeleteExpiredNonces(ctx context.Context, db bun.IDB, now time.Time) (int64, error) {
	res, err := db.NewDelete().
		Model((*models.WalletNonce)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
