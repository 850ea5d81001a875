package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/cache/v9"
	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ziglet/internal/interfaces"
	"ziglet/internal/pkg/caching"
	"ziglet/internal/pkg/gardentime"
	"ziglet/internal/services"
)

// all garden-day computations in these tests happen at this instant
var testInstant = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) error {
	return nil
}

type missCache struct{}

func (missCache) Get(_ context.Context, _ string, _ any) error {
	return cache.ErrCacheMiss
}

func (missCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (missCache) Delete(_ context.Context, _ string) error {
	return nil
}

type stubFaucetProvider struct{}

func (stubFaucetProvider) Drip(_ context.Context, _ string, _ int64) (string, error) {
	return "0xstub", nil
}

// newTestContainer wires the service graph onto a mocked database/sql
// connection so transactional paths run against scripted statements.
func newTestContainer(t *testing.T) (*do.Injector, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	injector := do.New()
	do.ProvideValue(injector, bun.NewDB(sqldb, pgdialect.New()))
	do.ProvideValue[interfaces.Limiter](injector, allowAllLimiter{})
	do.ProvideValue[gardentime.Clock](injector, gardentime.FixedClock{Instant: testInstant})
	do.ProvideValue[caching.Cache](injector, missCache{})
	do.ProvideValue[interfaces.FaucetProvider](injector, stubFaucetProvider{})
	do.ProvideValue[interfaces.TxChecker](injector, services.StaticTxChecker{})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication("test-secret")
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceAuth, error) {
		return services.NewServiceAuth(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceFaucet, error) {
		return services.NewServiceFaucet(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceReward, error) {
		return services.NewServiceReward(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceGarden, error) {
		return services.NewServiceGarden(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceTask, error) {
		return services.NewServiceTask(i)
	})
	do.Provide(injector, func(i *do.Injector) (*services.ServiceExternal, error) {
		return services.NewServiceExternal(i)
	})

	return injector, mock
}
