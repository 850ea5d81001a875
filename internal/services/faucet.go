package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"ziglet/internal/datastore"
	"ziglet/internal/interfaces"
	"ziglet/internal/models"
	"ziglet/internal/pkg/gardentime"
)

type FaucetJob struct {
	UserID        string
	RewardEventID string
	Amount        int64
}

// ServiceFaucet drains a bounded in-process queue of committed FAUCET rewards
// and dispatches them to the faucet endpoint. Dispatch outcomes never affect
// the HTTP request that earned the reward.
type ServiceFaucet struct {
	container *do.Injector
	db        *bun.DB
	provider  interfaces.FaucetProvider
	clock     gardentime.Clock
	queue     chan FaucetJob
}

func NewServiceFaucet(container *do.Injector) (*ServiceFaucet, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	provider, err := do.Invoke[interfaces.FaucetProvider](container)
	if err != nil {
		return nil, err
	}

	clock, err := do.Invoke[gardentime.Clock](container)
	if err != nil {
		return nil, err
	}

	return &ServiceFaucet{
		container: container,
		db:        db,
		provider:  provider,
		clock:     clock,
		queue:     make(chan FaucetJob, FAUCET_QUEUE_SIZE),
	}, nil
}

// Enqueue never blocks the issuing request; on saturation the job is dropped
// and logged, leaving the reward in the ledger without a faucet request.
func (service *ServiceFaucet) Enqueue(job FaucetJob) {
	select {
	case service.queue <- job:
	default:
		log.Printf("[faucet] queue full, dropping dispatch for reward %s", job.RewardEventID)
	}
}

// Run blocks draining the queue with a fixed worker pool until ctx ends.
func (service *ServiceFaucet) Run(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = FAUCET_WORKER_COUNT
	}

	wg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		wg.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job := <-service.queue:
					service.process(ctx, job)
				}
			}
		})
	}
	return wg.Wait()
}

func (service *ServiceFaucet) process(ctx context.Context, job FaucetJob) {
	now := service.clock.Now()
	request := &models.FaucetRequest{
		ID:            uuid.NewString(),
		UserID:        job.UserID,
		RewardEventID: job.RewardEventID,
		Status:        models.FaucetStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := datastore.CreateFaucetRequest(ctx, service.db, request); err != nil {
		log.Printf("[faucet] create request for reward %s: %v", job.RewardEventID, err)
		return
	}

	user, err := datastore.FindUserByID(ctx, service.db, job.UserID)
	if err != nil || user.ZigAddress == "" {
		log.Printf("[faucet] no wallet address for user %s: %v", job.UserID, err)
		if err := datastore.FinishFaucetRequest(ctx, service.db, request.ID, models.FaucetStatusFailed, nil, service.clock.Now()); err != nil {
			log.Printf("[faucet] finish request %s: %v", request.ID, err)
		}
		return
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, FAUCET_DISPATCH_TIMEOUT)
	defer cancel()

	txHash, err := service.provider.Drip(dispatchCtx, user.ZigAddress, job.Amount)
	if err != nil {
		log.Printf("[faucet] drip %d to %s: %v", job.Amount, user.ZigAddress, err)
		if err := datastore.FinishFaucetRequest(ctx, service.db, request.ID, models.FaucetStatusFailed, nil, service.clock.Now()); err != nil {
			log.Printf("[faucet] finish request %s: %v", request.ID, err)
		}
		return
	}

	if err := datastore.FinishFaucetRequest(ctx, service.db, request.ID, models.FaucetStatusSent, &txHash, service.clock.Now()); err != nil {
		log.Printf("[faucet] finish request %s: %v", request.ID, err)
		return
	}
	log.Printf("[faucet] sent %d to %s, tx %s", job.Amount, user.ZigAddress, txHash)
}

// FaucetHTTP posts drip requests to the faucet API.
type FaucetHTTP struct {
	client  *httpclient.Client
	baseURL string
}

func NewFaucetHTTP(baseURL string) *FaucetHTTP {
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(FAUCET_DISPATCH_TIMEOUT),
		httpclient.WithRetryCount(2),
	)
	return &FaucetHTTP{client, baseURL}
}

func (provider *FaucetHTTP) Drip(ctx context.Context, address string, amount int64) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"address": address,
		"amount":  amount,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := provider.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("faucet responded %d: %s", resp.StatusCode, body)
	}

	var result struct {
		TxHash string `json:"tx_hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.TxHash == "" {
		return "", fmt.Errorf("faucet response missing tx_hash")
	}
	return result.TxHash, nil
}
