package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
)

// SVG writes f as a vector document with one rect per cell.
func SVG(w io.Writer, f heatmap.Frame) error {
	if f.Empty() {
		return ErrEmptyFrame
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(math.Ceil(f.Geometry.Width)), int(math.Ceil(f.Geometry.Height)))
	canvas.Rect(0, 0, int(math.Ceil(f.Geometry.Width)), int(math.Ceil(f.Geometry.Height)), fill(background))

	canvas.Gid("cells")
	for _, cell := range f.Cells {
		x0, x1 := span(cell.X, cell.W)
		y0, y1 := span(cell.Y, cell.H)
		canvas.Rect(x0, y0, x1-x0, y1-y0, fill(cell.Color))
	}
	canvas.Gend()

	fontSize := f.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	canvas.Gid("labels")
	for _, label := range append(append([]heatmap.Label{}, f.TemperatureTicks...), f.HumidityTicks...) {
		canvas.Text(round(label.X), round(label.Y), label.Text, textStyle(label, fontSize))
	}
	for _, label := range f.Titles {
		if label.Rotate != 0 {
			canvas.TranslateRotate(round(label.X), round(label.Y), label.Rotate)
			canvas.Text(0, 0, label.Text, textStyle(label, fontSize+1))
			canvas.Gend()
			continue
		}
		canvas.Text(round(label.X), round(label.Y), label.Text, textStyle(label, fontSize+1))
	}
	canvas.Gend()

	if m := f.Marker; m != nil {
		canvas.Circle(round(m.X), round(m.Y), round(m.OuterRadius),
			fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%s;stroke-width:%g", rgb(m.Stroke), opacity(m.Stroke), m.StrokeWidth))
		canvas.Circle(round(m.X), round(m.Y), round(m.InnerRadius), fill(m.Fill))
	}
	canvas.End()
	return ew.err
}

func fill(c color.NRGBA) string {
	if c.A == 255 {
		return "fill:" + rgb(c)
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%s", rgb(c), opacity(c))
}

func rgb(c color.NRGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) string {
	return fmt.Sprintf("%.2f", float64(c.A)/255)
}

func textStyle(label heatmap.Label, size float64) string {
	anchor := label.Anchor
	if anchor == "" {
		anchor = "start"
	}
	weight := "normal"
	if label.Bold {
		weight = "bold"
	}
	return fmt.Sprintf("fill:%s;font-family:Arial,sans-serif;font-size:%gpx;font-weight:%s;text-anchor:%s", rgb(labelColor), size, weight, anchor)
}

func round(v float64) int {
	return int(math.Round(v))
}

// errWriter keeps the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
