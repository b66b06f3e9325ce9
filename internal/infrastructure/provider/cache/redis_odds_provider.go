package cache

import (
	"context"
	"errors"
	"slices"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/platform/resilience"
)

// SnapshotStore is the slice of the redis client the odds snapshot needs.
type SnapshotStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type RedisOddsConfig struct {
	Next   odds.Provider
	Store  SnapshotStore
	TTL    time.Duration
	Key    string
	Logger *logging.Logger
}

// RedisOddsProvider shares one odds snapshot across every replica. Redis
// failures degrade to a direct upstream call.
type RedisOddsProvider struct {
	next   odds.Provider
	store  SnapshotStore
	ttl    time.Duration
	key    string
	logger *logging.Logger
	flight resilience.SingleFlight[[]odds.Record]
}

var _ odds.Provider = (*RedisOddsProvider)(nil)

func NewRedisOddsProvider(cfg RedisOddsConfig) *RedisOddsProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	key := cfg.Key
	if key == "" {
		key = oddsKey
	}

	return &RedisOddsProvider{
		next:   cfg.Next,
		store:  cfg.Store,
		ttl:    cfg.TTL,
		key:    key,
		logger: logger,
	}
}

func (p *RedisOddsProvider) FetchOdds(ctx context.Context) ([]odds.Record, error) {
	if records, ok := p.readSnapshot(ctx); ok {
		return records, nil
	}

	records, err, _ := p.flight.Do(p.key, func() ([]odds.Record, error) {
		items, err := p.next.FetchOdds(ctx)
		if err != nil {
			return nil, err
		}
		p.writeSnapshot(ctx, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(records), nil
}

func (p *RedisOddsProvider) readSnapshot(ctx context.Context) ([]odds.Record, bool) {
	raw, err := p.store.Get(ctx, p.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.WarnContext(ctx, "odds snapshot read failed", "key", p.key, "error", err)
		}
		return nil, false
	}

	var records []odds.Record
	if err := sonic.Unmarshal(raw, &records); err != nil {
		p.logger.WarnContext(ctx, "odds snapshot decode failed", "key", p.key, "error", err)
		return nil, false
	}
	return records, true
}

func (p *RedisOddsProvider) writeSnapshot(ctx context.Context, records []odds.Record) {
	raw, err := sonic.Marshal(records)
	if err != nil {
		p.logger.WarnContext(ctx, "odds snapshot encode failed", "error", err)
		return
	}
	if err := p.store.Set(ctx, p.key, raw, p.ttl).Err(); err != nil {
		p.logger.WarnContext(ctx, "odds snapshot write failed", "key", p.key, "error", err)
	}
}
