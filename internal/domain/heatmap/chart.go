package heatmap

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/vpd-calculator/pkg/util"
)

// DefaultResizeDebounce is the quiet period after the last resize event before the chart re-lays out.
const DefaultResizeDebounce = 150 * time.Millisecond

// State is where the chart is in its interaction cycle.
type State int

const (
	StateIdle State = iota
	StateRendering
	StateTranslating
)

func (s State) String() string {
	switch s {
	case StateRendering:
		return "rendering"
	case StateTranslating:
		return "translating"
	default:
		return "idle"
	}
}

// Sink receives every frame the chart draws. Draw is called with the chart
// locked and must not call back into it.
type Sink interface {
	Draw(Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame)

// Draw implements Sink.
func (f SinkFunc) Draw(frame Frame) { f(frame) }

// SelectFunc receives the point a click translated to. The chart never applies
// it; the owner of the input decides and calls Update.
type SelectFunc func(temperature, humidity float64)

// ChartConfig tunes a Chart.
type ChartConfig struct {
	Options        Options
	ResizeDebounce time.Duration
	Clock          clockwork.Clock
}

// Chart owns one rendering surface: its geometry, the last input it was
// handed and the redraw cycle.
type Chart struct {
	mu       sync.Mutex
	cfg      ChartConfig
	sink     Sink
	onSelect SelectFunc

	input    Input
	hasInput bool
	geometry Geometry
	state    State

	timer         clockwork.Timer
	pendingWidth  float64
	pendingView   float64
	resizePending bool
	frames        int
}

// NewChart builds an unmounted chart.
func NewChart(cfg ChartConfig, sink Sink, onSelect SelectFunc) *Chart {
	if cfg.Clock == nil {
		cfg.Clock = util.Clock()
	}
	if cfg.ResizeDebounce <= 0 {
		cfg.ResizeDebounce = DefaultResizeDebounce
	}
	cfg.Options = cfg.Options.normalized()
	return &Chart{cfg: cfg, sink: sink, onSelect: onSelect}
}

// Mount measures the container once, without debouncing, and draws if an input is set.
func (c *Chart) Mount(containerWidth, viewportWidth float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geometry = NewGeometry(containerWidth, viewportWidth)
	c.redrawLocked()
}

// Update hands the chart a new operating point and redraws.
func (c *Chart) Update(in Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
	c.hasInput = true
	c.redrawLocked()
}

// Resize records a container size change. Only the last of a burst of
// resizes within the debounce window is applied.
func (c *Chart) Resize(containerWidth, viewportWidth float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingWidth = containerWidth
	c.pendingView = viewportWidth
	c.resizePending = true
	if c.timer == nil {
		c.timer = c.cfg.Clock.AfterFunc(c.cfg.ResizeDebounce, c.applyResize)
		return
	}
	c.timer.Reset(c.cfg.ResizeDebounce)
}

func (c *Chart) applyResize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.resizePending {
		return
	}
	c.resizePending = false
	next := NewGeometry(c.pendingWidth, c.pendingView)
	if next == c.geometry {
		return
	}
	c.geometry = next
	c.redrawLocked()
}

// Click translates a pointer position and reports it through the SelectFunc.
// Clicks outside the drawable area are ignored.
func (c *Chart) Click(x, y float64) bool {
	c.mu.Lock()
	if !c.hasInput {
		c.mu.Unlock()
		return false
	}
	c.state = StateTranslating
	temp, humidity, ok := Invert(c.geometry, c.input.Unit, x, y)
	c.state = StateIdle
	onSelect := c.onSelect
	c.mu.Unlock()

	if !ok {
		return false
	}
	if onSelect != nil {
		onSelect(temp, humidity)
	}
	return true
}

// Geometry returns the current layout.
func (c *Chart) Geometry() Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geometry
}

// State returns the current interaction state.
func (c *Chart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frames counts how many frames reached the sink.
func (c *Chart) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Unmount cancels a pending resize.
func (c *Chart) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.resizePending = false
}

func (c *Chart) redrawLocked() {
	if !c.hasInput || !c.geometry.Valid() {
		return
	}
	c.state = StateRendering
	frame := Render(c.input, c.geometry, c.cfg.Options)
	if c.sink != nil {
		c.sink.Draw(frame)
	}
	c.frames++
	c.state = StateIdle
}
