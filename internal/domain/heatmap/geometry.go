package heatmap

import "math"

const (
	// MobileBreakpoint is the widest viewport treated as a phone.
	MobileBreakpoint = 768
	MinChartSize     = 600
	MaxChartSize     = 1000
	// MaxContainerWidth is the widest container callers may ask to lay out.
	// Phone layouts are not clamped, so anything wider is rejected upstream.
	MaxContainerWidth = 4096
)

// Margins reserve space around the drawable area.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins leave room for the humidity labels above the grid and the
// temperature labels on its left.
var DefaultMargins = Margins{Top: 30, Right: 20, Bottom: 20, Left: 40}

// Geometry is the pixel layout of one chart. It is derived from the container
// size and never edited in place.
type Geometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// NewGeometry sizes a square chart for a container. Phones use the container
// width as is; larger viewports clamp it to [MinChartSize, MaxChartSize].
// A container that has not been measured yet yields an invalid geometry.
func NewGeometry(containerWidth, viewportWidth float64) Geometry {
	if containerWidth <= 0 || math.IsNaN(containerWidth) {
		return Geometry{Margins: DefaultMargins}
	}
	size := containerWidth
	if viewportWidth <= 0 || viewportWidth > MobileBreakpoint {
		size = math.Min(math.Max(containerWidth, MinChartSize), MaxChartSize)
	}
	return Geometry{Width: size, Height: size, Margins: DefaultMargins}
}

// ChartWidth is the drawable width inside the margins.
func (g Geometry) ChartWidth() float64 {
	return g.Width - g.Margins.Left - g.Margins.Right
}

// ChartHeight is the drawable height inside the margins.
func (g Geometry) ChartHeight() float64 {
	return g.Height - g.Margins.Top - g.Margins.Bottom
}

// Valid reports whether there is anything to draw on.
func (g Geometry) Valid() bool {
	return g.ChartWidth() > 0 && g.ChartHeight() > 0
}

// FontSize scales label text with the chart, within [8, 11].
func (g Geometry) FontSize() float64 {
	return math.Max(8, math.Min(11, g.Width/50))
}

// Inside reports whether (x, y) lies in the drawable area, edges included.
func (g Geometry) Inside(x, y float64) bool {
	return x >= g.Margins.Left && x <= g.Width-g.Margins.Right &&
		y >= g.Margins.Top && y <= g.Height-g.Margins.Bottom
}
