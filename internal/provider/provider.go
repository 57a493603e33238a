package provider

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"DebtSentinel/internal/model"
)

// DefaultWindowDays is the trailing window requested when the caller does
// not specify one.
const DefaultWindowDays = 365

// DefaultCacheTTL is how long a fetched series stays valid. The dataset is
// published once per banking day, so anything fresher than a day is current.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	series    model.DebtSeries
	fetchedAt time.Time
}

// Provider produces up-to-date debt series, memoizing results per window
// size so repeated render passes within the validity window perform no I/O.
// The cache is shared by all callers in the process; it is keyed by window
// size only, never by caller identity.
type Provider struct {
	fetcher Fetcher
	ttl     time.Duration

	mu    sync.Mutex
	cache map[int]cacheEntry

	now func() time.Time
}

// NewProvider creates a Provider around the given fetcher.
func NewProvider(fetcher Fetcher, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Provider{
		fetcher: fetcher,
		ttl:     ttl,
		cache:   make(map[int]cacheEntry),
		now:     time.Now,
	}
}

// GetSeries returns the debt series covering the trailing windowDays days.
// A cached result younger than the TTL is returned as-is with no network
// access; otherwise exactly one fetch is issued and the cache replaced
// wholesale. A failed fetch leaves any previously cached entry untouched.
func (p *Provider) GetSeries(ctx context.Context, windowDays int) (model.DebtSeries, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if entry, ok := p.cache[windowDays]; ok && now.Sub(entry.fetchedAt) < p.ttl {
		logrus.WithFields(logrus.Fields{
			"window_days": windowDays,
			"age":         now.Sub(entry.fetchedAt).Round(time.Second).String(),
		}).Debug("debt series cache hit")
		return entry.series, nil
	}

	startDate := now.AddDate(0, 0, -windowDays)
	series, err := p.fetcher.FetchSeries(ctx, startDate, now)
	if err != nil {
		return nil, err
	}

	p.cache[windowDays] = cacheEntry{series: series, fetchedAt: now}
	logrus.WithFields(logrus.Fields{
		"source":       p.fetcher.Name(),
		"window_days":  windowDays,
		"observations": len(series),
	}).Info("debt series refreshed")
	return series, nil
}

// Invalidate drops the cached entry for the given window size, forcing the
// next GetSeries call to fetch.
func (p *Provider) Invalidate(windowDays int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, windowDays)
}

// CacheAge reports how long ago the entry for windowDays was fetched.
// The second return value is false when no entry exists.
func (p *Provider) CacheAge(windowDays int) (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.cache[windowDays]
	if !ok {
		return 0, false
	}
	return p.now().Sub(entry.fetchedAt), true
}
