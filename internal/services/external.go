package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis_rate/v10"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"ziglet/internal/datastore"
	"ziglet/internal/interfaces"
	"ziglet/internal/models"
	"ziglet/internal/pkg/gardentime"
)

var ErrTxAlreadyProcessed = errors.New("transaction already processed")

type ServiceExternal struct {
	container     *do.Injector
	db            *bun.DB
	limiter       interfaces.Limiter
	clock         gardentime.Clock
	checker       interfaces.TxChecker
	serviceReward *ServiceReward
}

func NewServiceExternal(container *do.Injector) (*ServiceExternal, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[gardentime.Clock](container)
	if err != nil {
		return nil, err
	}

	checker, err := do.Invoke[interfaces.TxChecker](container)
	if err != nil {
		return nil, err
	}

	serviceReward, err := do.Invoke[*ServiceReward](container)
	if err != nil {
		return nil, err
	}

	return &ServiceExternal{container, db, rateLimiter, clock, checker, serviceReward}, nil
}

// VerifyAndReward credits an on-chain swap exactly once per tx hash. The hash
// row's primary key is the double-credit guard; losing an insert race reports
// already-processed.
func (service *ServiceExternal) VerifyAndReward(ctx context.Context, user *models.User, txHash string) (*models.RewardEvent, error) {
	if txHash == "" {
		return nil, errorx.Wrap(errors.New("missing tx hash"), errorx.Validation)
	}

	if err := service.limiter.Allow(ctx, LimitKeyExternalVerify(user.ID), redis_rate.PerMinute(RATE_LIMIT_EXTERNAL_VERIFY_PER_MINUTE)); err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	_, err := datastore.FindExternalAction(ctx, service.db, txHash)
	if err == nil {
		return nil, errorx.Wrap(ErrTxAlreadyProcessed, errorx.Invalid)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	valid, err := service.checker.CheckTx(ctx, txHash)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !valid {
		return nil, errorx.Wrap(errors.New("invalid or failed transaction"), errorx.Invalid)
	}

	today := gardentime.Day(service.clock.Now())

	var reward *models.RewardEvent
	err = service.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertExternalAction(ctx, tx, &models.ExternalAction{
			TxHash:     txHash,
			UserID:     user.ID,
			ActionType: EXTERNAL_ACTION_SWAP,
			Verified:   true,
			GardenDay:  today,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return errorx.Wrap(ErrTxAlreadyProcessed, errorx.Invalid)
		}

		reward, err = service.serviceReward.Issue(ctx, tx, user.ID, models.RewardSourceTask, models.RewardTypeZig, EXTERNAL_SWAP_REWARD_AMOUNT, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.serviceReward.DispatchFaucet(reward)

	return reward, nil
}

// LCDTxChecker confirms a hash against a chain LCD endpoint; a tx counts only
// when it exists and committed with code 0.
type LCDTxChecker struct {
	client  *httpclient.Client
	baseURL string
}

func NewLCDTxChecker(baseURL string) *LCDTxChecker {
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(FAUCET_DISPATCH_TIMEOUT),
		httpclient.WithRetryCount(2),
	)
	return &LCDTxChecker{client, strings.TrimSuffix(baseURL, "/")}
}

func (checker *LCDTxChecker) CheckTx(ctx context.Context, txHash string) (bool, error) {
	url := fmt.Sprintf("%s/cosmos/tx/v1beta1/txs/%s", checker.baseURL, txHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := checker.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("lcd responded %d", resp.StatusCode)
	}

	var result struct {
		TxResponse struct {
			Code int `json:"code"`
		} `json:"tx_response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.TxResponse.Code == 0, nil
}

// StaticTxChecker is the development stand-in used when no LCD endpoint is
// configured; it only sanity-checks the hash shape.
type StaticTxChecker struct{}

func (StaticTxChecker) CheckTx(_ context.Context, txHash string) (bool, error) {
	return strings.HasPrefix(txHash, "0x") && len(txHash) > 10, nil
}
