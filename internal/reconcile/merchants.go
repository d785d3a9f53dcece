package reconcile

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fintrack/internal/cache"
)

const (
	merchantCacheSize = 512
	merchantCacheTTL  = 15 * time.Minute
)

// merchantResolver turns merchant ids into display names. Lookups are
// cached and collapsed: concurrent fetches for the same merchant share
// one API call. A failed lookup falls back to the purchase description
// and is not cached, so the next pass retries.
type merchantResolver struct {
	client Client
	names  *cache.LRU[string]
	group  singleflight.Group
	logger *slog.Logger
}

func newMerchantResolver(client Client, logger *slog.Logger) *merchantResolver {
	return &merchantResolver{
		client: client,
		names:  cache.NewLRU[string](merchantCacheSize, merchantCacheTTL),
		logger: logger,
	}
}

func (m *merchantResolver) resolve(ctx context.Context, merchantID, fallback string) string {
	if name, ok := m.names.Get(merchantID); ok {
		return name
	}

	v, err, _ := m.group.Do(merchantID, func() (any, error) {
		merchant, err := m.client.FetchMerchant(ctx, merchantID)
		if err != nil {
			return nil, err
		}
		m.names.Set(merchantID, merchant.Name)
		return merchant.Name, nil
	})
	if err != nil {
		m.logger.WarnContext(ctx, "merchant lookup failed",
			"merchant_id", merchantID, "error", err)
		return fallback
	}
	return v.(string)
}
