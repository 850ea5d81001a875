package datastore

import (
	"context"

	"ziglet/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRewardEvent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.RewardEvent)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().
		Model((*models.RewardEvent)(nil)).
		Index("index_reward_event_user_created").
		IfNotExists().
		ColumnExpr("user_id, created_at DESC, id DESC").
		Exec(ctx)
	return err
}

// InsertRewardEvent appends to the ledger. The ledger is never updated or
// deleted; this is the only write path.
func InsertRewardEvent(ctx context.Context, db bun.IDB, event *models.RewardEvent) error {
	_, err := db.NewInsert().Model(event).Exec(ctx)
	return err
}

// FindRewardEventByID resolves a ledger row by id, scoped to its owner; a
// cursor naming another user's event reads the same as an unknown one.
func FindRewardEventByID(ctx context.Context, db bun.IDB, userID, id string) (*models.RewardEvent, error) {
	var event models.RewardEvent
	err := db.NewSelect().
		Model(&event).
		Where("re.id = ?", id).
		Where("re.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetRewardEventsPage returns up to limit events starting at the cursor row in
// (created_at DESC, id DESC) order. The cursor names the first row of the page,
// so the comparison is inclusive; the compound order keeps pagination stable
// across same-millisecond inserts.
func GetRewardEventsPage(ctx context.Context, db bun.IDB, userID, cursor string, limit int) ([]*models.RewardEvent, error) {
	var events []*models.RewardEvent
	q := db.NewSelect().
		Model(&events).
		Relation("FaucetRequest").
		Where("re.user_id = ?", userID).
		OrderExpr("re.created_at DESC, re.id DESC").
		Limit(limit)

	if cursor != "" {
		after, err := FindRewardEventByID(ctx, db, userID, cursor)
		if err != nil {
			return nil, err
		}
		q = q.Where("(re.created_at, re.id) <= (?, ?)", after.CreatedAt, after.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
