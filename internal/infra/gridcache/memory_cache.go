package gridcache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
	"github.com/yanqian/vpd-calculator/pkg/util"
)

// DefaultMaxEntries bounds the memory cache when no size is configured.
const DefaultMaxEntries = 64

// MemoryCache is a size-bounded LRU of frames with per-entry expiry.
type MemoryCache struct {
	maxEntries int
	clock      clockwork.Clock
	onEvict    func()

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key       string
	frame     heatmap.Frame
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// MemoryOption customizes a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock overrides the clock used for expiry.
func WithClock(c clockwork.Clock) MemoryOption {
	return func(m *MemoryCache) { m.clock = c }
}

// WithEvictionHook runs fn for every entry dropped by size or expiry.
func WithEvictionHook(fn func()) MemoryOption {
	return func(m *MemoryCache) { m.onEvict = fn }
}

// NewMemoryCache constructs a cache holding at most maxEntries frames.
func NewMemoryCache(maxEntries int, opts ...MemoryOption) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &MemoryCache{
		maxEntries: maxEntries,
		clock:      util.Clock(),
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements vpdcalc.FrameCache.
func (c *MemoryCache) Get(_ context.Context, key string) (heatmap.Frame, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return heatmap.Frame{}, false, nil
	}
	if c.expiredLocked(e) {
		c.dropLocked(e)
		return heatmap.Frame{}, false, nil
	}
	c.moveToFront(e)
	return e.frame, true, nil
}

// Set implements vpdcalc.FrameCache. A non-positive ttl keeps the frame until it is evicted by size.
func (c *MemoryCache) Set(_ context.Context, key string, frame heatmap.Frame, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = c.clock.Now().Add(ttl)
	}
	if e, ok := c.entries[key]; ok {
		e.frame = frame
		e.expiresAt = exp
		c.moveToFront(e)
		return nil
	}

	e := &entry{key: key, frame: frame, expiresAt: exp}
	c.entries[key] = e
	c.addToFront(e)
	if len(c.entries) > c.maxEntries {
		c.dropLocked(c.tail)
	}
	return nil
}

// Purge drops every expired entry and returns how many went.
func (c *MemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for e := c.tail; e != nil; {
		prev := e.prev
		if c.expiredLocked(e) {
			c.dropLocked(e)
			removed++
		}
		e = prev
	}
	return removed
}

// Len reports the number of cached frames, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) expiredLocked(e *entry) bool {
	return !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt)
}

func (c *MemoryCache) dropLocked(e *entry) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	c.remove(e)
	if c.onEvict != nil {
		c.onEvict()
	}
}

func (c *MemoryCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *MemoryCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *MemoryCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

var _ vpdcalc.FrameCache = (*MemoryCache)(nil)
