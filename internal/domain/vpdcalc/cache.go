package vpdcalc

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

// FrameCache stores painted grids. Frames are cached without a marker; the
// service places the marker per request.
type FrameCache interface {
	Get(ctx context.Context, key string) (heatmap.Frame, bool, error)
	Set(ctx context.Context, key string, frame heatmap.Frame, ttl time.Duration) error
}

// FrameKey identifies a grid by everything that changes its pixels.
func FrameKey(unit psychro.Unit, palette string, resolution int, g heatmap.Geometry) string {
	return fmt.Sprintf("%s:%s:%d:%gx%g", unit, palette, resolution, g.Width, g.Height)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (heatmap.Frame, bool, error) {
	return heatmap.Frame{}, false, nil
}

func (noopCache) Set(context.Context, string, heatmap.Frame, time.Duration) error {
	return nil
}

// NoopCache disables frame caching.
func NoopCache() FrameCache {
	return noopCache{}
}
