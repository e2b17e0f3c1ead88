package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSummaryCache(client, time.Minute), mr
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key := SummaryKey(10, day(2025, 1, 1), day(2025, 1, 31))
	in := UnitSummary{UnitID: 10, Revenue: 400, Expenses: 80, NetProfit: 320}

	var out UnitSummary
	require.False(t, cache.Get(ctx, key, &out), "empty cache should miss")

	cache.Set(ctx, key, in)
	require.True(t, cache.Get(ctx, key, &out))
	assert.Equal(t, in, out)
}

func TestSummaryCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key := SummaryKey(10, day(2025, 1, 1), day(2025, 1, 31))
	cache.Set(ctx, key, UnitSummary{UnitID: 10})

	mr.FastForward(2 * time.Minute)

	var out UnitSummary
	assert.False(t, cache.Get(ctx, key, &out), "expired entry should miss")
}

func TestSummaryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	var out UnitSummary

	var nilCache *SummaryCache
	assert.False(t, nilCache.Get(ctx, "k", &out))
	nilCache.Set(ctx, "k", UnitSummary{}) // must not panic

	off := NewSummaryCache(nil, time.Minute)
	assert.False(t, off.Get(ctx, "k", &out))
	off.Set(ctx, "k", UnitSummary{})
}

func TestSummaryKeyDistinguishesPeriods(t *testing.T) {
	a := SummaryKey(10, day(2025, 1, 1), day(2025, 1, 31))
	b := SummaryKey(10, day(2025, 2, 1), day(2025, 2, 28))
	c := SummaryKey(20, day(2025, 1, 1), day(2025, 1, 31))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
