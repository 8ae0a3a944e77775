package gridcache

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(4)

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	frame := sampleFrame(psychro.Celsius)
	require.NoError(t, cache.Set(ctx, "a", frame, time.Minute))

	got, ok, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, frame, got)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	var evicted atomic.Int32
	cache := NewMemoryCache(2, WithEvictionHook(func() { evicted.Add(1) }))

	require.NoError(t, cache.Set(ctx, "a", sampleFrame(psychro.Celsius), 0))
	require.NoError(t, cache.Set(ctx, "b", sampleFrame(psychro.Celsius), 0))
	_, ok, _ := cache.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, cache.Set(ctx, "c", sampleFrame(psychro.Fahrenheit), 0))
	require.Equal(t, 2, cache.Len())
	require.Equal(t, int32(1), evicted.Load())

	_, ok, _ = cache.Get(ctx, "b")
	require.False(t, ok)
	_, ok, _ = cache.Get(ctx, "a")
	require.True(t, ok)
	_, ok, _ = cache.Get(ctx, "c")
	require.True(t, ok)
}

func TestMemoryCacheOverwriteKeepsSize(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2)

	require.NoError(t, cache.Set(ctx, "a", sampleFrame(psychro.Celsius), 0))
	require.NoError(t, cache.Set(ctx, "a", sampleFrame(psychro.Fahrenheit), 0))
	require.Equal(t, 1, cache.Len())

	got, ok, _ := cache.Get(ctx, "a")
	require.True(t, ok)
	require.Equal(t, psychro.Fahrenheit, got.Unit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	cache := NewMemoryCache(8, WithClock(clock))

	require.NoError(t, cache.Set(ctx, "short", sampleFrame(psychro.Celsius), time.Minute))
	require.NoError(t, cache.Set(ctx, "long", sampleFrame(psychro.Celsius), time.Hour))
	require.NoError(t, cache.Set(ctx, "forever", sampleFrame(psychro.Celsius), 0))

	clock.Advance(time.Minute)
	_, ok, _ := cache.Get(ctx, "short")
	require.False(t, ok)
	require.Equal(t, 2, cache.Len())

	clock.Advance(2 * time.Hour)
	require.Equal(t, 1, cache.Purge())
	require.Equal(t, 1, cache.Len())
	_, ok, _ = cache.Get(ctx, "forever")
	require.True(t, ok)
}

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) Purge() int {
	p.calls.Add(1)
	return 0
}

func TestJanitorPurgesOnSchedule(t *testing.T) {
	purger := &countingPurger{}
	janitor, err := NewJanitor(purger, 20*time.Millisecond, newTestLogger())
	require.NoError(t, err)

	janitor.Start()
	defer janitor.Stop()

	require.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestJanitorWithoutTargetIsInert(t *testing.T) {
	janitor, err := NewJanitor(nil, time.Second, newTestLogger())
	require.NoError(t, err)
	janitor.Start()
	janitor.Stop()
}

func sampleFrame(unit psychro.Unit) heatmap.Frame {
	frame := heatmap.Render(heatmap.Input{Temperature: 20, Unit: unit, Humidity: 50}, heatmap.NewGeometry(600, 1280), heatmap.Options{Resolution: 2})
	frame.Marker = nil
	return frame
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
