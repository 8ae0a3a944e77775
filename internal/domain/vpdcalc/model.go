package vpdcalc

import (
	"time"

	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
)

// Config holds runtime knobs for the calculator service.
type Config struct {
	DefaultTemperature float64
	DefaultUnit        psychro.Unit
	DefaultHumidity    float64
	Resolution         int
	Palette            string
	CacheTTL           time.Duration
}

// Request describes one operating point. Nil fields fall back to the configured defaults.
type Request struct {
	Temperature *float64 `json:"temperature,omitempty" form:"temperature"`
	Unit        string   `json:"unit,omitempty" form:"unit" binding:"omitempty,unit"`
	Humidity    *float64 `json:"humidity,omitempty" form:"humidity"`
	LeafOffset  float64  `json:"leafOffset,omitempty" form:"leafOffset" binding:"gte=-20,lte=20"`
}

// Input is the operating point after defaults and clamping.
type Input struct {
	Temperature float64      `json:"temperature"`
	Unit        psychro.Unit `json:"unit"`
	Humidity    float64      `json:"humidity"`
	LeafOffset  float64      `json:"leafOffset"`
}

// ZoneInfo is a zone as presented to callers. Max is omitted for the open top zone.
type ZoneInfo struct {
	Key            psychro.ZoneKey `json:"key"`
	Min            float64         `json:"min"`
	Max            *float64        `json:"max,omitempty"`
	Range          string          `json:"range"`
	Status         string          `json:"status"`
	Class          string          `json:"class"`
	Label          string          `json:"label"`
	Color          string          `json:"color"`
	CSS            string          `json:"css"`
	Recommendation string          `json:"recommendation"`
}

// Response carries every value derived for one operating point.
type Response struct {
	Input                   Input         `json:"input"`
	Clamped                 bool          `json:"clamped"`
	TemperatureC            float64       `json:"temperatureC"`
	TemperatureF            float64       `json:"temperatureF"`
	SaturationVaporPressure float64       `json:"saturationVaporPressure"`
	ActualVaporPressure     float64       `json:"actualVaporPressure"`
	VPD                     float64       `json:"vpd"`
	LeafTemperature         float64       `json:"leafTemperature"`
	LeafVPD                 float64       `json:"leafVpd"`
	DewPoint                *float64      `json:"dewPoint"`
	CondensationRisk        bool          `json:"condensationRisk"`
	Zone                    ZoneInfo      `json:"zone"`
	InputHint               psychro.Range `json:"inputHint"`
}

// ChartRequest asks for a rendered heatmap.
type ChartRequest struct {
	Request
	Width      float64 `json:"width" form:"width" binding:"required,gt=0,lte=4096"`
	Viewport   float64 `json:"viewport,omitempty" form:"viewport" binding:"gte=0"`
	Resolution int     `json:"resolution,omitempty" form:"resolution" binding:"gte=0,lte=400"`
	Palette    string  `json:"palette,omitempty" form:"palette"`
}

// ClickRequest is a pointer position on a chart of the given size.
type ClickRequest struct {
	Request
	Width    float64 `json:"width" binding:"required,gt=0,lte=4096"`
	Viewport float64 `json:"viewport,omitempty" binding:"gte=0"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ClickResponse reports where a click landed. Reading is the calculation for
// the translated point; the caller decides whether to adopt it.
type ClickResponse struct {
	Hit         bool         `json:"hit"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	Unit        psychro.Unit `json:"unit"`
	Reading     *Response    `json:"reading,omitempty"`
}

// ConvertRequest switches a temperature between units.
type ConvertRequest struct {
	Value float64 `json:"value"`
	From  string  `json:"from" binding:"required,unit"`
	To    string  `json:"to" binding:"required,unit"`
}

// ConvertResponse holds the rounded value shown after a unit switch and the exact one.
type ConvertResponse struct {
	Value float64      `json:"value"`
	Exact float64      `json:"exact"`
	Unit  psychro.Unit `json:"unit"`
}
