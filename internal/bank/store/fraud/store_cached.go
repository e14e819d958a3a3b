package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

const cacheKeyPrefix = "fraud:addr:"

// CachedStore is a Redis read-through cache in front of another registry.
// Resolve serves cached bindings within the TTL; SetFraud writes through and
// deletes the cached entry, so a freshly reported address is never served
// unflagged from this process again. Cache failures degrade to the backing
// store, never to an error.
type CachedStore struct {
	next   FraudRegistry
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// FraudRegistry is the backing contract CachedStore wraps. Declared locally
// to keep this package free of a dependency on ports.
type FraudRegistry interface {
	Resolve(ctx context.Context, address id.PaymentAddress) (*models.AddressBinding, error)
	SetFraud(ctx context.Context, address id.PaymentAddress) error
	Save(ctx context.Context, binding *models.AddressBinding) error
}

func NewCachedStore(next FraudRegistry, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger}
}

func (s *CachedStore) Resolve(ctx context.Context, address id.PaymentAddress) (*models.AddressBinding, error) {
	key := cacheKeyPrefix + address.String()

	raw, err := s.client.Get(ctx, key).Result()
	if err == nil {
		var binding models.AddressBinding
		if unmarshalErr := json.Unmarshal([]byte(raw), &binding); unmarshalErr == nil {
			return &binding, nil
		}
		// Unreadable cache entry: fall through and repopulate.
	} else if !errors.Is(err, redis.Nil) {
		s.logWarn(ctx, "fraud cache read failed", err)
	}

	binding, err := s.next.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(binding); marshalErr == nil {
		if setErr := s.client.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			s.logWarn(ctx, "fraud cache write failed", setErr)
		}
	}
	return binding, nil
}

func (s *CachedStore) SetFraud(ctx context.Context, address id.PaymentAddress) error {
	if err := s.next.SetFraud(ctx, address); err != nil {
		return err
	}
	// Invalidate after the write lands; a stale unflagged entry must not
	// outlive a successful report.
	if err := s.client.Del(ctx, cacheKeyPrefix+address.String()).Err(); err != nil {
		s.logWarn(ctx, "fraud cache invalidation failed", err)
	}
	return nil
}

func (s *CachedStore) Save(ctx context.Context, binding *models.AddressBinding) error {
	if err := s.next.Save(ctx, binding); err != nil {
		return err
	}
	if err := s.client.Del(ctx, cacheKeyPrefix+binding.Address.String()).Err(); err != nil {
		s.logWarn(ctx, "fraud cache invalidation failed", err)
	}
	return nil
}

func (s *CachedStore) logWarn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "error", err.Error())
	}
}
