package datastore

import (
	"context"
	"time"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.User)(nil)).
		Index("index_user_zig_address").
		Unique().
		IfNotExists().
		Column("zig_address").
		Exec(ctx)
	return err
}

func FindUserByID(ctx context.Context, db bun.IDB, userID string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// if the user is not found, return nil
func FindUserByAddress(ctx context.Context, db bun.IDB, address string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("zig_address = ?", address).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db bun.IDB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func TouchLastLogin(ctx context.Context, db bun.IDB, user *models.User, at time.Time) (*models.User, error) {
	user.LastLoginAt = at
	_, err := db.NewUpdate().
		Model(user).
		Set("last_login_at = ?", at).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}
