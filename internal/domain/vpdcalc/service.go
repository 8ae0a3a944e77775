package vpdcalc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
	apperrors "github.com/yanqian/vpd-calculator/pkg/errors"
	"github.com/yanqian/vpd-calculator/pkg/metrics"
)

// Service exposes the VPD calculator and its heatmap.
type Service interface {
	Calculate(ctx context.Context, req Request) (Response, error)
	Zones(ctx context.Context) []ZoneInfo
	Chart(ctx context.Context, req ChartRequest) (heatmap.Frame, error)
	Click(ctx context.Context, req ClickRequest) (ClickResponse, error)
	Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error)
}

type service struct {
	cfg     Config
	palette psychro.Palette
	cache   FrameCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService wires the calculator dependencies.
func NewService(cfg Config, cache FrameCache, m *metrics.Metrics, logger *slog.Logger) Service {
	if cfg.DefaultUnit == "" {
		cfg.DefaultUnit = psychro.Fahrenheit
	}
	if cfg.Resolution <= 0 {
		cfg.Resolution = heatmap.DefaultResolution
	}
	palette, ok := psychro.LookupPalette(cfg.Palette)
	if !ok {
		palette = psychro.DefaultPalette()
	}
	cfg.Palette = palette.Name
	if cache == nil {
		cache = NoopCache()
	}
	return &service{
		cfg:     cfg,
		palette: palette,
		cache:   cache,
		metrics: m,
		logger:  logger.With("component", "vpdcalc.service"),
	}
}

func (s *service) Calculate(_ context.Context, req Request) (Response, error) {
	in, clamped, err := s.resolve(req)
	if err != nil {
		return Response{}, err
	}
	resp := s.describe(in, clamped)
	s.metrics.Calculations.WithLabelValues(string(resp.Zone.Key)).Inc()
	return resp, nil
}

func (s *service) Zones(_ context.Context) []ZoneInfo {
	zones := psychro.Zones()
	out := make([]ZoneInfo, 0, len(zones))
	for _, z := range zones {
		out = append(out, s.zoneInfo(z))
	}
	return out
}

func (s *service) Chart(ctx context.Context, req ChartRequest) (heatmap.Frame, error) {
	in, _, err := s.resolve(req.Request)
	if err != nil {
		return heatmap.Frame{}, err
	}
	if err := checkSurface(req.Width, req.Viewport); err != nil {
		return heatmap.Frame{}, err
	}
	palette := s.palette
	if req.Palette != "" {
		p, ok := psychro.LookupPalette(req.Palette)
		if !ok {
			return heatmap.Frame{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown palette %q", req.Palette), nil)
		}
		palette = p
	}
	resolution := req.Resolution
	if resolution <= 0 {
		resolution = s.cfg.Resolution
	}
	if resolution > heatmap.MaxResolution {
		return heatmap.Frame{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("resolution cannot exceed %d", heatmap.MaxResolution), nil)
	}

	geometry := heatmap.NewGeometry(req.Width, req.Viewport)
	point := heatmap.Input{Temperature: in.Temperature, Unit: in.Unit, Humidity: in.Humidity}
	if !geometry.Valid() {
		s.logger.Debug("chart skipped, surface too small", "width", req.Width, "viewport", req.Viewport)
		return heatmap.Render(point, geometry, heatmap.Options{Resolution: resolution, Palette: palette}), nil
	}

	key := FrameKey(in.Unit, palette.Name, resolution, geometry)
	if frame, ok := s.cachedFrame(ctx, key); ok {
		return heatmap.WithMarker(frame, point), nil
	}

	start := time.Now()
	frame := heatmap.Render(point, geometry, heatmap.Options{Resolution: resolution, Palette: palette})
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.metrics.FramesRendered.Inc()

	if s.cfg.CacheTTL > 0 {
		grid := frame
		grid.Marker = nil
		if err := s.cache.Set(ctx, key, grid, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("frame cache write failed", "key", key, "error", err)
		}
	}
	return frame, nil
}

func (s *service) cachedFrame(ctx context.Context, key string) (heatmap.Frame, bool) {
	if s.cfg.CacheTTL <= 0 {
		return heatmap.Frame{}, false
	}
	frame, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.FrameCache.WithLabelValues("error").Inc()
		s.logger.Warn("frame cache read failed", "key", key, "error", err)
		return heatmap.Frame{}, false
	case !ok || frame.Empty():
		s.metrics.FrameCache.WithLabelValues("miss").Inc()
		return heatmap.Frame{}, false
	default:
		s.metrics.FrameCache.WithLabelValues("hit").Inc()
		return frame, true
	}
}

func (s *service) Click(_ context.Context, req ClickRequest) (ClickResponse, error) {
	in, _, err := s.resolve(req.Request)
	if err != nil {
		return ClickResponse{}, err
	}
	if !isFinite(req.X) || !isFinite(req.Y) {
		return ClickResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "click coordinates must be finite numbers", nil)
	}
	if err := checkSurface(req.Width, req.Viewport); err != nil {
		return ClickResponse{}, err
	}
	geometry := heatmap.NewGeometry(req.Width, req.Viewport)
	temp, humidity, ok := heatmap.Invert(geometry, in.Unit, req.X, req.Y)
	if !ok {
		s.metrics.Clicks.WithLabelValues("outside").Inc()
		return ClickResponse{Hit: false, Unit: in.Unit}, nil
	}
	s.metrics.Clicks.WithLabelValues("hit").Inc()

	next := in
	next.Temperature = temp
	next.Humidity = humidity
	reading := s.describe(next, false)
	return ClickResponse{
		Hit:         true,
		Temperature: temp,
		Humidity:    humidity,
		Unit:        in.Unit,
		Reading:     &reading,
	}, nil
}

func (s *service) Convert(_ context.Context, req ConvertRequest) (ConvertResponse, error) {
	if !isFinite(req.Value) {
		return ConvertResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "value must be a finite number", nil)
	}
	from, err := psychro.ParseUnit(req.From)
	if err != nil {
		return ConvertResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown unit %q", req.From), err)
	}
	to, err := psychro.ParseUnit(req.To)
	if err != nil {
		return ConvertResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown unit %q", req.To), err)
	}
	return ConvertResponse{
		Value: psychro.ConvertRounded(req.Value, from, to),
		Exact: psychro.Convert(req.Value, from, to),
		Unit:  to,
	}, nil
}

// resolve applies defaults, rejects non-finite numbers and clamps the point
// into the accepted domain. The bool reports whether clamping changed anything.
func (s *service) resolve(req Request) (Input, bool, error) {
	unit := s.cfg.DefaultUnit
	if req.Unit != "" {
		parsed, err := psychro.ParseUnit(req.Unit)
		if err != nil {
			return Input{}, false, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown unit %q", req.Unit), err)
		}
		unit = parsed
	}

	temp := psychro.ConvertRounded(s.cfg.DefaultTemperature, s.cfg.DefaultUnit, unit)
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	humidity := s.cfg.DefaultHumidity
	if req.Humidity != nil {
		humidity = *req.Humidity
	}
	if !isFinite(temp) || !isFinite(humidity) || !isFinite(req.LeafOffset) {
		return Input{}, false, apperrors.Wrap(apperrors.CodeInvalidInput, "temperature, humidity and leaf offset must be finite numbers", nil)
	}

	in := Input{
		Temperature: psychro.Domain(unit).Clamp(temp),
		Unit:        unit,
		Humidity:    psychro.ClampHumidity(humidity),
		LeafOffset:  req.LeafOffset,
	}
	return in, in.Temperature != temp || in.Humidity != humidity, nil
}

func (s *service) describe(in Input, clamped bool) Response {
	reading := psychro.Derive(psychro.Conditions{
		Temperature: in.Temperature,
		Unit:        in.Unit,
		Humidity:    in.Humidity,
		LeafOffset:  in.LeafOffset,
	})
	resp := Response{
		Input:                   in,
		Clamped:                 clamped,
		TemperatureC:            reading.TempC,
		TemperatureF:            reading.TempF,
		SaturationVaporPressure: reading.SaturationVaporPressure,
		ActualVaporPressure:     reading.ActualVaporPressure,
		VPD:                     reading.VPD,
		LeafTemperature:         in.Temperature + in.LeafOffset,
		LeafVPD:                 reading.LeafVPD,
		CondensationRisk:        reading.CondensationRisk,
		Zone:                    s.zoneInfo(reading.Zone),
		InputHint:               psychro.InputHint(in.Unit),
	}
	if reading.DewPointDefined {
		dp := reading.DewPointC
		if in.Unit == psychro.Fahrenheit {
			dp = psychro.CelsiusToFahrenheit(dp)
		}
		resp.DewPoint = &dp
	}
	return resp
}

func (s *service) zoneInfo(z psychro.Zone) ZoneInfo {
	swatch := s.palette.Swatch(z.Key)
	info := ZoneInfo{
		Key:            z.Key,
		Min:            z.Min,
		Range:          z.Range,
		Status:         z.Status,
		Class:          z.Class,
		Label:          swatch.Label,
		Color:          swatch.Hex(),
		CSS:            swatch.CSS(),
		Recommendation: z.Recommendation,
	}
	if !math.IsInf(z.Max, 1) {
		upper := z.Max
		info.Max = &upper
	}
	return info
}

// checkSurface bounds the container so phone layouts, which are not clamped,
// cannot ask for an arbitrarily large frame.
func checkSurface(width, viewport float64) error {
	if !isFinite(width) || width > heatmap.MaxContainerWidth {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("width must not exceed %d", heatmap.MaxContainerWidth), nil)
	}
	if !isFinite(viewport) {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "viewport must be a finite number", nil)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
