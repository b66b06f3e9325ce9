package cache

import (
	"context"
	"slices"
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	basecache "github.com/riskibarqy/mlb-schedule/internal/platform/cache"
)

const oddsKey = "odds:upcoming"

// OddsProvider serves the last odds snapshot for up to ttl so bursts of
// schedule requests spend one upstream call.
type OddsProvider struct {
	next  odds.Provider
	cache *basecache.Store[[]odds.Record]
}

var _ odds.Provider = (*OddsProvider)(nil)

func NewOddsProvider(next odds.Provider, ttl time.Duration) *OddsProvider {
	return &OddsProvider{
		next:  next,
		cache: basecache.NewStore[[]odds.Record](ttl),
	}
}

func (p *OddsProvider) FetchOdds(ctx context.Context) ([]odds.Record, error) {
	records, err := p.cache.GetOrLoad(ctx, oddsKey, func(ctx context.Context) ([]odds.Record, error) {
		items, err := p.next.FetchOdds(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(records), nil
}
