package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ziglet/internal/pkg/gardentime"
)

type recordingProvider struct {
	address string
	amount  int64
	txHash  string
	err     error
}

func (p *recordingProvider) Drip(_ context.Context, address string, amount int64) (string, error) {
	p.address = address
	p.amount = amount
	return p.txHash, p.err
}

func newClockedFaucet(t *testing.T, provider *recordingProvider, instant time.Time) (*ServiceFaucet, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	return &ServiceFaucet{
		db:       bun.NewDB(sqldb, pgdialect.New()),
		provider: provider,
		clock:    gardentime.FixedClock{Instant: instant},
		queue:    make(chan FaucetJob, 1),
	}, mock
}

// Dispatch bookkeeping timestamps come from the injected clock, never the wall
// clock, so the PENDING→SENT/FAILED transitions are deterministic.
func TestFaucetDispatchUsesInjectedClock(t *testing.T) {
	instant := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	job := FaucetJob{UserID: "u1", RewardEventID: "evt-1", Amount: 50}

	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "zig_address", "created_at", "last_login_at"}).
			AddRow("u1", "zig1wallet", instant, instant)
	}

	t.Run("successful drip lands SENT stamped at the clock instant", func(t *testing.T) {
		provider := &recordingProvider{txHash: "0xfaucet"}
		service, mock := newClockedFaucet(t, provider, instant)

		// bun appends RETURNING "tx_hash" for the nil pointer column, so the
		// INSERT arrives at the driver as a query, not an exec.
		mock.ExpectQuery(`INSERT INTO "faucet_request".*2026-03-01 12:00:00`).
			WillReturnRows(sqlmock.NewRows([]string{"tx_hash"}).AddRow(nil))
		mock.ExpectQuery(`FROM "user"`).WillReturnRows(userRow())
		mock.ExpectExec(`status = 'SENT'.*updated_at = '2026-03-01 12:00:00`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		service.process(context.Background(), job)

		assert.Equal(t, "zig1wallet", provider.address)
		assert.EqualValues(t, 50, provider.amount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("provider failure lands FAILED stamped at the clock instant", func(t *testing.T) {
		provider := &recordingProvider{err: errors.New("faucet down")}
		service, mock := newClockedFaucet(t, provider, instant)

		mock.ExpectQuery(`INSERT INTO "faucet_request".*2026-03-01 12:00:00`).
			WillReturnRows(sqlmock.NewRows([]string{"tx_hash"}).AddRow(nil))
		mock.ExpectQuery(`FROM "user"`).WillReturnRows(userRow())
		mock.ExpectExec(`status = 'FAILED'.*updated_at = '2026-03-01 12:00:00`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		service.process(context.Background(), job)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
