// Package render turns heatmap frames into images. Backends only paint what
// the frame describes; none of them knows about VPD.
package render

import (
	"errors"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
)

// ErrEmptyFrame is returned when a frame has no cells to paint.
var ErrEmptyFrame = errors.New("frame has nothing to draw")

// Format is one output encoding.
type Format struct {
	Name        string
	ContentType string
	Encode      func(w io.Writer, f heatmap.Frame) error
}

var formats = map[string]Format{
	"png": {Name: "png", ContentType: "image/png", Encode: PNG},
	"svg": {Name: "svg", ContentType: "image/svg+xml", Encode: SVG},
}

// Lookup resolves a format by name, case-insensitively.
func Lookup(name string) (Format, bool) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

var (
	background = color.NRGBA{R: 24, G: 28, B: 33, A: 255}
	labelColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// span snaps a float interval to whole pixels so neighbouring cells share edges.
func span(start, length float64) (int, int) {
	return int(math.Round(start)), int(math.Round(start + length))
}
