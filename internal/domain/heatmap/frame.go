package heatmap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

// DefaultResolution is the lattice size along each axis.
const DefaultResolution = 100

// MaxResolution bounds the lattice so a frame stays a few hundred thousand cells at most.
const MaxResolution = 400

// Input is the operating point the chart is asked to show.
type Input struct {
	Temperature float64      `json:"temperature"`
	Unit        psychro.Unit `json:"unit"`
	Humidity    float64      `json:"humidity"`
}

// Options select how a frame is painted.
type Options struct {
	Resolution int
	Palette    psychro.Palette
}

func (o Options) normalized() Options {
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
	if o.Resolution > MaxResolution {
		o.Resolution = MaxResolution
	}
	if o.Palette.Swatches == nil {
		o.Palette = psychro.DefaultPalette()
	}
	return o
}

// Cell is one painted rectangle of the grid.
type Cell struct {
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	W           float64         `json:"w"`
	H           float64         `json:"h"`
	Humidity    float64         `json:"humidity"`
	Temperature float64         `json:"temperature"`
	VPD         float64         `json:"vpd"`
	Zone        psychro.ZoneKey `json:"zone"`
	Color       color.NRGBA     `json:"color"`
}

// Marker is the current operating point drawn over the grid.
type Marker struct {
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	OuterRadius float64     `json:"outerRadius"`
	InnerRadius float64     `json:"innerRadius"`
	StrokeWidth float64     `json:"strokeWidth"`
	Stroke      color.NRGBA `json:"stroke"`
	Fill        color.NRGBA `json:"fill"`
	// Clamped is set when the operating point lay outside the chart and was pinned to its edge.
	Clamped bool `json:"clamped"`
}

// Label is a piece of text placed on the chart. Anchor follows SVG's text-anchor.
type Label struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor"`
	Rotate float64 `json:"rotate,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
}

// Frame is a backend-agnostic picture of the chart.
type Frame struct {
	Geometry         Geometry     `json:"geometry"`
	Unit             psychro.Unit `json:"unit"`
	Palette          string       `json:"palette"`
	Resolution       int          `json:"resolution"`
	FontSize         float64      `json:"fontSize"`
	Cells            []Cell       `json:"cells"`
	Marker           *Marker      `json:"marker,omitempty"`
	TemperatureTicks []Label      `json:"temperatureTicks"`
	HumidityTicks    []Label      `json:"humidityTicks"`
	Titles           []Label      `json:"titles"`
}

// Empty reports whether the frame has nothing to draw.
func (f Frame) Empty() bool {
	return len(f.Cells) == 0
}

var (
	markerStroke = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	markerFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
)

// Render paints the whole chart for one input. Cells are sampled at their
// centers and do not depend on each other. An invalid geometry returns an
// empty frame.
func Render(in Input, g Geometry, opts Options) Frame {
	opts = opts.normalized()
	frame := Frame{
		Geometry:   g,
		Unit:       in.Unit,
		Palette:    opts.Palette.Name,
		Resolution: opts.Resolution,
	}
	if !g.Valid() {
		return frame
	}
	frame.FontSize = g.FontSize()

	rng := psychro.ChartRange(in.Unit)
	n := opts.Resolution
	cellW := g.ChartWidth() / float64(n)
	cellH := g.ChartHeight() / float64(n)

	frame.Cells = make([]Cell, 0, n*n)
	for row := 0; row < n; row++ {
		temp := rng.Min + (float64(row)+0.5)/float64(n)*rng.Span()
		tempC := psychro.ToCelsius(temp, in.Unit)
		for col := 0; col < n; col++ {
			humidity := 100 * (1 - (float64(col)+0.5)/float64(n))
			vpd := psychro.VPD(tempC, humidity)
			zone := psychro.Classify(vpd)
			frame.Cells = append(frame.Cells, Cell{
				X:           g.Margins.Left + float64(col)*cellW,
				Y:           g.Margins.Top + float64(row)*cellH,
				W:           cellW,
				H:           cellH,
				Humidity:    humidity,
				Temperature: temp,
				VPD:         vpd,
				Zone:        zone.Key,
				Color:       opts.Palette.Swatch(zone.Key).Color,
			})
		}
	}

	frame.TemperatureTicks = temperatureTicks(g, rng)
	frame.HumidityTicks = humidityTicks(g)
	frame.Titles = []Label{
		{
			Text:   fmt.Sprintf("Air Temperature (%s)", in.Unit.Symbol()),
			X:      g.Margins.Left + 50,
			Y:      g.Margins.Top + g.ChartHeight()/2,
			Anchor: "middle",
			Rotate: -90,
			Bold:   true,
		},
		{
			Text:   "Relative Humidity (%)",
			X:      g.Margins.Left + g.ChartWidth()/2,
			Y:      g.Margins.Top - 10,
			Anchor: "middle",
			Bold:   true,
		},
	}
	frame.Marker = marker(g, in, rng)
	return frame
}

// WithMarker returns f with its marker moved to in. The cells slice is shared
// with f, so a cached grid can be reused for any operating point of the same unit.
func WithMarker(f Frame, in Input) Frame {
	if f.Empty() {
		f.Marker = nil
		return f
	}
	f.Marker = marker(f.Geometry, in, psychro.ChartRange(f.Unit))
	return f
}

func marker(g Geometry, in Input, rng psychro.Range) *Marker {
	if math.IsNaN(in.Temperature) || math.IsNaN(in.Humidity) {
		return nil
	}
	temp := rng.Clamp(in.Temperature)
	humidity := psychro.ClampHumidity(in.Humidity)
	x, y := Project(g, in.Unit, temp, humidity)
	return &Marker{
		X:           x,
		Y:           y,
		OuterRadius: 8,
		InnerRadius: 6,
		StrokeWidth: 2,
		Stroke:      markerStroke,
		Fill:        markerFill,
		Clamped:     temp != in.Temperature || humidity != in.Humidity,
	}
}

func temperatureTicks(g Geometry, rng psychro.Range) []Label {
	ticks := make([]Label, 0, int(rng.Span()/rng.Step)+1)
	for t := rng.Min; t <= rng.Max; t += rng.Step {
		_, y := Project(g, rng.Unit, t, 100)
		ticks = append(ticks, Label{
			Text:   fmt.Sprintf("%g%s", t, rng.Unit.Symbol()),
			X:      g.Margins.Left + 5,
			Y:      y + 4,
			Anchor: "start",
		})
	}
	return ticks
}

func humidityTicks(g Geometry) []Label {
	ticks := make([]Label, 0, 11)
	for h := 0; h <= 100; h += 10 {
		x := g.Margins.Left + float64(100-h)/100*g.ChartWidth()
		ticks = append(ticks, Label{
			Text:   fmt.Sprintf("%d%%", h),
			X:      x,
			Y:      g.Margins.Top + 15,
			Anchor: "middle",
		})
	}
	return ticks
}
