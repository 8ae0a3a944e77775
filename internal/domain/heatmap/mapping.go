package heatmap

import (
	"math"

	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

// Axis orientation is fixed: 100% humidity on the left edge, 0% on the
// right; the coldest temperature on the top edge, the warmest at the bottom.
// Readers compare charts by position, so neither axis may be flipped.

// Project maps a (temperature, humidity) point in unit u to pixel coordinates.
func Project(g Geometry, u psychro.Unit, temperature, humidity float64) (x, y float64) {
	rng := psychro.ChartRange(u)
	x = g.Margins.Left + (100-humidity)/100*g.ChartWidth()
	y = g.Margins.Top + (temperature-rng.Min)/rng.Span()*g.ChartHeight()
	return x, y
}

// Invert maps a pointer position back to (temperature, humidity). ok is
// false when the point falls outside the drawable area. Results are clamped
// to [0, 100] and to the chart's temperature range.
func Invert(g Geometry, u psychro.Unit, x, y float64) (temperature, humidity float64, ok bool) {
	if !g.Valid() || math.IsNaN(x) || math.IsNaN(y) || !g.Inside(x, y) {
		return 0, 0, false
	}
	rng := psychro.ChartRange(u)
	relX := (x - g.Margins.Left) / g.ChartWidth()
	relY := (y - g.Margins.Top) / g.ChartHeight()

	humidity = psychro.ClampHumidity(100 * (1 - relX))
	temperature = rng.Clamp(rng.Min + relY*rng.Span())
	return temperature, humidity, true
}
