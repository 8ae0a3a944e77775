package psychro

import (
	"errors"
	"math"
	"strings"
)

// Unit identifies the temperature scale of a value.
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ErrUnknownUnit is returned by ParseUnit for anything other than C or F.
var ErrUnknownUnit = errors.New("unknown temperature unit")

// ParseUnit accepts C, F, celsius or fahrenheit in any case.
func ParseUnit(raw string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	default:
		return "", ErrUnknownUnit
	}
}

// Symbol renders the unit with a degree sign.
func (u Unit) Symbol() string {
	return "°" + string(u)
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(tempF float64) float64 {
	return (tempF - 32) * 5 / 9
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(tempC float64) float64 {
	return tempC*9/5 + 32
}

// ToCelsius normalizes a value in unit u to °C.
func ToCelsius(value float64, u Unit) float64 {
	if u == Fahrenheit {
		return FahrenheitToCelsius(value)
	}
	return value
}

// Convert moves a temperature between scales. Same-unit conversions return the value untouched.
func Convert(value float64, from, to Unit) float64 {
	switch {
	case from == to:
		return value
	case from == Fahrenheit && to == Celsius:
		return FahrenheitToCelsius(value)
	case from == Celsius && to == Fahrenheit:
		return CelsiusToFahrenheit(value)
	default:
		return value
	}
}

// ConvertRounded is Convert rounded to the nearest whole degree, which is
// what a unit toggle shows the user.
func ConvertRounded(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}
	return math.Round(Convert(value, from, to))
}

// Range is a closed temperature interval in a given unit.
type Range struct {
	Unit Unit    `json:"unit"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step,omitempty"`
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Clamp pins v into [Min, Max].
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ChartRange is the temperature axis of the heatmap.
func ChartRange(u Unit) Range {
	if u == Fahrenheit {
		return Range{Unit: Fahrenheit, Min: 32, Max: 122, Step: 10}
	}
	return Range{Unit: Celsius, Min: 0, Max: 50, Step: 5}
}

// InputHint is the range suggested next to the temperature input.
func InputHint(u Unit) Range {
	if u == Fahrenheit {
		return Range{Unit: Fahrenheit, Min: 50, Max: 95}
	}
	return Range{Unit: Celsius, Min: 10, Max: 35}
}

// Domain is the band of temperatures accepted from callers before clamping.
func Domain(u Unit) Range {
	if u == Fahrenheit {
		return Range{Unit: Fahrenheit, Min: -40, Max: 140}
	}
	return Range{Unit: Celsius, Min: -40, Max: 60}
}

// ClampHumidity pins a relative humidity into [0, 100].
func ClampHumidity(rh float64) float64 {
	return math.Max(0, math.Min(100, rh))
}
