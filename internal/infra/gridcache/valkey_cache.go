package gridcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
)

// ValkeyCache shares rendered frames between instances through Valkey.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "vpd"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements vpdcalc.FrameCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (heatmap.Frame, bool, error) {
	cmd := c.client.B().Get().Key(c.frameKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return heatmap.Frame{}, false, nil
		}
		return heatmap.Frame{}, false, err
	}
	var frame heatmap.Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return heatmap.Frame{}, false, fmt.Errorf("decode cached frame: %w", err)
	}
	return frame, true, nil
}

// Set implements vpdcalc.FrameCache. Valkey expiry has one-second granularity.
func (c *ValkeyCache) Set(ctx context.Context, key string, frame heatmap.Frame, ttl time.Duration) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	builder := c.client.B().Set().Key(c.frameKey(key)).Value(valkey.BinaryString(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) frameKey(key string) string {
	return fmt.Sprintf("%s:frame:%s", c.prefix, key)
}

var _ vpdcalc.FrameCache = (*ValkeyCache)(nil)
