package main

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"

	"ziglet/internal/datastore"
	"ziglet/internal/pkg/gardentime"
)

// NonceJob sweeps expired login challenges. Expiry is already enforced at
// verify time; this just keeps the table small.
type NonceJob struct {
	Db    *bun.DB
	Clock gardentime.Clock
}

func NewNonceJob(db *bun.DB) *NonceJob {
	return &NonceJob{
		Db:    db,
		Clock: gardentime.SystemClock{},
	}
}

func (j *NonceJob) Start(cronRunner *cron.Cron) error {
	_, err := cronRunner.AddFunc("@every 10m", j.purgeExpired)
	return err
}

func (j *NonceJob) purgeExpired() {
	ctx := context.Background()

	n, err := datastore.DeleteExpiredNonces(ctx, j.Db, j.Clock.Now())
	if err != nil {
		log.Println("purge expired nonces:", err)
		return
	}
	if n > 0 {
		log.Printf("purged %d expired nonces", n)
	}
}
