package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DebtSentinel/internal/model"
)

func fixedSeries(t *testing.T, rows ...[2]string) model.DebtSeries {
	t.Helper()
	series := make(model.DebtSeries, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row[0])
		require.NoError(t, err)
		series[i] = model.DebtObservation{Date: date, TotalDebt: decimal.RequireFromString(row[1])}
	}
	return series
}

func TestGetSeries_CacheHitIsIdempotent(t *testing.T) {
	mock := &MockFetcher{Series: fixedSeries(t,
		[2]string{"2026-08-27", "100.00"},
		[2]string{"2026-08-28", "105.50"},
	)}
	p := NewProvider(mock, 24*time.Hour)

	first, err := p.GetSeries(context.Background(), 365)
	require.NoError(t, err)
	require.Equal(t, 1, mock.Calls)

	second, err := p.GetSeries(context.Background(), 365)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls, "cache hit must perform no network call")
	assert.Equal(t, first, second)
}

func TestGetSeries_StaleCacheRefetches(t *testing.T) {
	mock := &MockFetcher{}
	p := NewProvider(mock, 24*time.Hour)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.GetSeries(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, 1, mock.Calls)

	// Just inside the validity window: still a hit.
	now = now.Add(23 * time.Hour)
	_, err = p.GetSeries(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls)

	// Past the validity window: exactly one new call.
	now = now.Add(2 * time.Hour)
	_, err = p.GetSeries(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)
}

func TestGetSeries_FailedRefreshKeepsOldEntry(t *testing.T) {
	good := fixedSeries(t,
		[2]string{"2026-08-27", "100.00"},
		[2]string{"2026-08-28", "105.50"},
	)
	mock := &MockFetcher{Series: good}
	p := NewProvider(mock, 24*time.Hour)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.GetSeries(context.Background(), 365)
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)
	mock.Err = &NetworkError{URL: "http://example.test", Err: errors.New("timeout")}
	_, err = p.GetSeries(context.Background(), 365)
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))

	// The stale entry survives the failed refresh.
	p.mu.Lock()
	entry, ok := p.cache[365]
	p.mu.Unlock()
	require.True(t, ok, "failed refresh must not evict the previous entry")
	assert.Equal(t, good, entry.series)
}

func TestGetSeries_CacheKeyedByWindow(t *testing.T) {
	mock := &MockFetcher{}
	p := NewProvider(mock, 24*time.Hour)

	_, err := p.GetSeries(context.Background(), 30)
	require.NoError(t, err)
	_, err = p.GetSeries(context.Background(), 365)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)

	_, err = p.GetSeries(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)
}

func TestGetSeries_DefaultWindow(t *testing.T) {
	mock := &MockFetcher{}
	p := NewProvider(mock, 24*time.Hour)

	_, err := p.GetSeries(context.Background(), 0)
	require.NoError(t, err)

	_, ok := p.CacheAge(DefaultWindowDays)
	assert.True(t, ok, "non-positive window falls back to the default")
}

func TestGetSeries_AscendingUniqueWithinSpan(t *testing.T) {
	mock := &MockFetcher{}
	p := NewProvider(mock, 24*time.Hour)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	const window = 90
	series, err := p.GetSeries(context.Background(), window)
	require.NoError(t, err)
	require.NotEmpty(t, series)

	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date),
			"dates must be strictly ascending at index %d", i)
	}

	start, end := series.Span()
	assert.False(t, start.Before(now.AddDate(0, 0, -window)))
	assert.False(t, end.After(now))
	assert.LessOrEqual(t, int(end.Sub(start).Hours()/24), window+1)
}

func TestInvalidate(t *testing.T) {
	mock := &MockFetcher{}
	p := NewProvider(mock, 24*time.Hour)

	_, err := p.GetSeries(context.Background(), 365)
	require.NoError(t, err)
	require.Equal(t, 1, mock.Calls)

	p.Invalidate(365)
	_, err = p.GetSeries(context.Background(), 365)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)
}
