package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"ziglet/internal/datastore"
	"ziglet/internal/interfaces"
	"ziglet/internal/models"
	"ziglet/internal/pkg/gardentime"
	"ziglet/internal/pkg/zigcrypto"
)

type ServiceAuth struct {
	container      *do.Injector
	db             *bun.DB
	limiter        interfaces.Limiter
	clock          gardentime.Clock
	authentication *Authentication
}

func NewServiceAuth(container *do.Injector) (*ServiceAuth, error) {
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

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAuth{container, db, rateLimiter, clock, authentication}, nil
}

// RequestNonce stores a fresh single-use challenge for the address, replacing
// any previous one.
func (service *ServiceAuth) RequestNonce(ctx context.Context, address string) (string, error) {
	if err := zigcrypto.ValidateAddress(address); err != nil {
		return "", errorx.Wrap(err, errorx.Validation)
	}

	if err := service.limiter.Allow(ctx, LimitKeyNonce(address), redis_rate.PerMinute(RATE_LIMIT_NONCE_PER_MINUTE)); err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return "", errorx.Wrap(err, errorx.RateLimiting)
		}
		return "", errorx.Wrap(err, errorx.Service)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errorx.Wrap(err, errorx.Service)
	}
	nonce := NONCE_MESSAGE_PREFIX + hex.EncodeToString(buf)

	now := service.clock.Now()
	record := &models.WalletNonce{
		ZigAddress: address,
		Nonce:      nonce,
		ExpiresAt:  gardentime.NonceExpiry(now, NONCE_TTL),
	}
	if err := datastore.UpsertWalletNonce(ctx, service.db, record); err != nil {
		return "", errorx.Wrap(err, errorx.Service)
	}

	return nonce, nil
}

// VerifyAndLogin checks the signature over the stored nonce, consumes the
// nonce, and finds or creates the wallet's user. Signature failures are
// reported as a single opaque authn error.
func (service *ServiceAuth) VerifyAndLogin(ctx context.Context, address string, pubKey, signature []byte) (string, *models.User, error) {
	if err := zigcrypto.ValidateAddress(address); err != nil {
		return "", nil, errorx.Wrap(err, errorx.Validation)
	}

	record, err := datastore.FindWalletNonce(ctx, service.db, address)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, errorx.Wrap(errors.New("nonce not found"), errorx.NotExist)
	}
	if err != nil {
		return "", nil, errorx.Wrap(err, errorx.Service)
	}

	now := service.clock.Now()
	if now.After(record.ExpiresAt) {
		return "", nil, errorx.Wrap(errors.New("nonce expired"), errorx.Invalid)
	}

	if err := zigcrypto.VerifyArbitrarySignature(address, record.Nonce, pubKey, signature); err != nil {
		log.Printf("[auth] signature rejected for %s: %v", address, err)
		return "", nil, errorx.Wrap(errors.New("signature verification failed"), errorx.Authn)
	}

	var user *models.User
	err = service.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		consumed, err := datastore.ConsumeWalletNonce(ctx, tx, address)
		if err != nil {
			return err
		}
		if !consumed {
			return errorx.Wrap(errors.New("nonce not found"), errorx.NotExist)
		}

		existing, err := datastore.FindUserByAddress(ctx, tx, address)
		if errors.Is(err, sql.ErrNoRows) {
			user, err = datastore.CreateUser(ctx, tx, &models.User{
				ID:          uuid.NewString(),
				ZigAddress:  address,
				CreatedAt:   now,
				LastLoginAt: now,
			})
			return err
		}
		if err != nil {
			return err
		}

		user, err = datastore.TouchLastLogin(ctx, tx, existing, now)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	token, err := service.authentication.CreateToken(user, now)
	if err != nil {
		return "", nil, errorx.Wrap(err, errorx.Service)
	}

	return token, user, nil
}

// FindUser resolves the authenticated user's row for request handling.
func (service *ServiceAuth) FindUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := datastore.FindUserByID(ctx, service.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.Authn)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return user, nil
}
