package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
)

// PNG paints f as a raster image.
func PNG(w io.Writer, f heatmap.Frame) error {
	img, err := Rasterize(f)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Rasterize paints f onto an in-memory image.
func Rasterize(f heatmap.Frame) (*image.NRGBA, error) {
	if f.Empty() {
		return nil, ErrEmptyFrame
	}
	width := int(math.Ceil(f.Geometry.Width))
	height := int(math.Ceil(f.Geometry.Height))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, cell := range f.Cells {
		x0, x1 := span(cell.X, cell.W)
		y0, y1 := span(cell.Y, cell.H)
		draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(cell.Color), image.Point{}, draw.Over)
	}

	for _, label := range f.TemperatureTicks {
		drawText(img, label)
	}
	for _, label := range f.HumidityTicks {
		drawText(img, label)
	}
	for _, label := range f.Titles {
		drawText(img, label)
	}

	if m := f.Marker; m != nil {
		ring := &annulus{cx: m.X, cy: m.Y, inner: m.OuterRadius - m.StrokeWidth/2, outer: m.OuterRadius + m.StrokeWidth/2}
		draw.DrawMask(img, ring.Bounds(), image.NewUniform(m.Stroke), image.Point{}, ring, ring.Bounds().Min, draw.Over)
		disc := &annulus{cx: m.X, cy: m.Y, inner: -1, outer: m.InnerRadius}
		draw.DrawMask(img, disc.Bounds(), image.NewUniform(m.Fill), image.Point{}, disc, disc.Bounds().Min, draw.Over)
	}
	return img, nil
}

// annulus is an alpha mask covering pixels whose centers lie between two radii.
type annulus struct {
	cx, cy       float64
	inner, outer float64
}

func (a *annulus) ColorModel() color.Model { return color.AlphaModel }

func (a *annulus) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(a.cx-a.outer)), int(math.Floor(a.cy-a.outer)),
		int(math.Ceil(a.cx+a.outer))+1, int(math.Ceil(a.cy+a.outer))+1,
	)
}

func (a *annulus) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-a.cx, float64(y)+0.5-a.cy)
	if d <= a.outer && d > a.inner {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

var face = basicfont.Face7x13

func drawText(dst draw.Image, label heatmap.Label) {
	if label.Rotate != 0 {
		drawRotated(dst, label)
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: face}
	width := d.MeasureString(label.Text).Round()
	d.Dot = fixed.P(int(math.Round(label.X))-anchorOffset(label.Anchor, width), int(math.Round(label.Y)))
	d.DrawString(label.Text)
}

// drawRotated renders the label upright on a scratch image and copies it
// turned a quarter counter-clockwise, which is the only rotation the chart uses.
func drawRotated(dst draw.Image, label heatmap.Label) {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textHeight := metrics.Height.Ceil()

	d := &font.Drawer{Src: image.NewUniform(labelColor), Face: face}
	width := d.MeasureString(label.Text).Round()
	if width == 0 {
		return
	}
	scratch := image.NewNRGBA(image.Rect(0, 0, width, textHeight))
	d.Dst = scratch
	d.Dot = fixed.P(0, ascent)
	d.DrawString(label.Text)

	// After rotation the text runs bottom to top, centered on (X, Y) per its anchor.
	originX := int(math.Round(label.X)) - ascent
	originY := int(math.Round(label.Y)) + anchorOffset(label.Anchor, width)
	for sy := 0; sy < textHeight; sy++ {
		for sx := 0; sx < width; sx++ {
			c := scratch.NRGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			x, y := originX+sy, originY-sx
			if !image.Pt(x, y).In(dst.Bounds()) {
				continue
			}
			draw.Draw(dst, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
		}
	}
}

func anchorOffset(anchor string, width int) int {
	switch anchor {
	case "middle":
		return width / 2
	case "end":
		return width
	default:
		return 0
	}
}
