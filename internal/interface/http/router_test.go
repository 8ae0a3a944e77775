package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
	"github.com/yanqian/vpd-calculator/internal/infra/config"
	apperrors "github.com/yanqian/vpd-calculator/pkg/errors"
	"github.com/yanqian/vpd-calculator/pkg/metrics"
)

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubCalculator{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestRouter_RequestIDPropagates(t *testing.T) {
	server := newRouterUnderTest(t, &stubCalculator{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)
	require.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))
}

func TestRouter_CalculateSuccess(t *testing.T) {
	svc := &stubCalculator{
		calculateFn: func(ctx context.Context, req vpdcalc.Request) (vpdcalc.Response, error) {
			require.NotNil(t, req.Temperature)
			require.Equal(t, 23.0, *req.Temperature)
			require.Equal(t, 60.0, *req.Humidity)
			require.Equal(t, "C", req.Unit)
			return vpdcalc.Response{VPD: 1.124, Zone: vpdcalc.ZoneInfo{Key: psychro.ZoneLateVegEarlyFlower}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/vpd?temperature=23&unit=C&humidity=60", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got vpdcalc.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, 1.124, got.VPD)
	require.Equal(t, psychro.ZoneLateVegEarlyFlower, got.Zone.Key)
}

func TestRouter_CalculateRejectsUnknownUnit(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/vpd?unit=K", "", newRouterUnderTest(t, &stubCalculator{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_CalculateRejectsMalformedNumber(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/vpd?temperature=warm", "", newRouterUnderTest(t, &stubCalculator{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_CalculateInvalidInput(t *testing.T) {
	svc := &stubCalculator{
		calculateFn: func(ctx context.Context, req vpdcalc.Request) (vpdcalc.Response, error) {
			return vpdcalc.Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "temperature must be finite", nil)
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/vpd", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "temperature must be finite")
}

func TestRouter_UnexpectedErrorIsHidden(t *testing.T) {
	svc := &stubCalculator{
		calculateFn: func(ctx context.Context, req vpdcalc.Request) (vpdcalc.Response, error) {
			return vpdcalc.Response{}, errors.New("db password leaked")
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/vpd", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "internal_error", errBody["error"]["code"])
	require.NotContains(t, errBody["error"]["message"], "password")
}

func TestRouter_ChartRejectsUnknownPalette(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/chart?width=640&palette=neon", "", newRouterUnderTest(t, newCalculator()))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_input", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_ClickOnZeroEdgesKeepsCoordinates(t *testing.T) {
	server := newRouterUnderTest(t, newCalculator())

	tests := []struct {
		name     string
		x, y     float64
		temp     float64
		humidity float64
	}{
		{"top left is saturated and coldest", 40, 30, 0, 100},
		{"top right is dry and coldest", 780, 30, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"unit":"C","width":800,"viewport":1280,"x":%g,"y":%g}`, tc.x, tc.y)
			recorder := performRequest(http.MethodPost, "/api/v1/chart/click", body, server)
			require.Equal(t, http.StatusOK, recorder.Code)

			var raw map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
			require.Contains(t, raw, "temperature")
			require.Contains(t, raw, "humidity")

			var got vpdcalc.ClickResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
			require.True(t, got.Hit)
			require.Equal(t, psychro.Celsius, got.Unit)
			require.InDelta(t, tc.temp, got.Temperature, 1e-9)
			require.InDelta(t, tc.humidity, got.Humidity, 1e-9)
		})
	}
}

func TestAsHTTPError(t *testing.T) {
	invalid := asHTTPError(fmt.Errorf("chart: %w", apperrors.Wrap(apperrors.CodeInvalidInput, "unknown unit", nil)))
	require.Equal(t, http.StatusBadRequest, invalid.Status)
	require.Equal(t, apperrors.CodeInvalidInput, invalid.Code)
	require.Equal(t, "unknown unit", invalid.Message)

	render := asHTTPError(apperrors.Wrap(apperrors.CodeRenderFailed, "failed to encode chart", errors.New("short write")))
	require.Equal(t, http.StatusInternalServerError, render.Status)
	require.Equal(t, apperrors.CodeRenderFailed, render.Code)

	transport := badRequest("format must be json, png or svg", nil)
	require.Same(t, transport, asHTTPError(transport))

	plain := asHTTPError(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, plain.Status)
	require.Equal(t, "internal_error", plain.Code)

	require.Nil(t, asHTTPError(nil))
}

func TestRouter_Zones(t *testing.T) {
	svc := &stubCalculator{zones: []vpdcalc.ZoneInfo{{Key: psychro.ZoneEarlyVeg, Range: "0.4 - 0.8"}}}

	recorder := performRequest(http.MethodGet, "/api/v1/zones", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Zones []vpdcalc.ZoneInfo `json:"zones"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Zones, 1)
	require.Equal(t, "0.4 - 0.8", body.Zones[0].Range)
}

func TestRouter_ChartFormats(t *testing.T) {
	svc := &stubCalculator{
		chartFn: func(ctx context.Context, req vpdcalc.ChartRequest) (heatmap.Frame, error) {
			require.Equal(t, 640.0, req.Width)
			require.Equal(t, 4, req.Resolution)
			return heatmap.Render(heatmap.Input{Temperature: 75, Unit: psychro.Fahrenheit, Humidity: 50}, heatmap.NewGeometry(req.Width, req.Viewport), heatmap.Options{Resolution: req.Resolution}), nil
		},
	}
	server := newRouterUnderTest(t, svc)

	recorder := performRequest(http.MethodGet, "/api/v1/chart?width=640&viewport=1280&resolution=4", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var frame heatmap.Frame
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &frame))
	require.Len(t, frame.Cells, 16)

	recorder = performRequest(http.MethodGet, "/api/v1/chart?width=640&viewport=1280&resolution=4&format=png", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(recorder.Body.Bytes(), []byte("\x89PNG")))

	recorder = performRequest(http.MethodGet, "/api/v1/chart?width=640&viewport=1280&resolution=4&format=svg", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "image/svg+xml", recorder.Header().Get("Content-Type"))
	require.Contains(t, recorder.Body.String(), "<svg")

	recorder = performRequest(http.MethodGet, "/api/v1/chart?width=640&format=gif", "", server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_ChartRequiresWidth(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/chart", "", newRouterUnderTest(t, &stubCalculator{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_ChartEmptyImage(t *testing.T) {
	svc := &stubCalculator{
		chartFn: func(ctx context.Context, req vpdcalc.ChartRequest) (heatmap.Frame, error) {
			return heatmap.Frame{}, nil
		},
	}
	recorder := performRequest(http.MethodGet, "/api/v1/chart?width=30&viewport=375&format=png", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRouter_Click(t *testing.T) {
	svc := &stubCalculator{
		clickFn: func(ctx context.Context, req vpdcalc.ClickRequest) (vpdcalc.ClickResponse, error) {
			require.Equal(t, 410.0, req.X)
			require.Equal(t, 405.0, req.Y)
			require.Equal(t, "F", req.Unit)
			return vpdcalc.ClickResponse{Hit: true, Temperature: 77, Humidity: 50, Unit: psychro.Fahrenheit}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/chart/click", `{"unit":"F","width":800,"viewport":1280,"x":410,"y":405}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got vpdcalc.ClickResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Hit)
	require.Equal(t, 77.0, got.Temperature)
}

func TestRouter_ConvertValidation(t *testing.T) {
	svc := &stubCalculator{
		convertFn: func(ctx context.Context, req vpdcalc.ConvertRequest) (vpdcalc.ConvertResponse, error) {
			return vpdcalc.ConvertResponse{Value: 24, Exact: 23.9, Unit: psychro.Celsius}, nil
		},
	}
	server := newRouterUnderTest(t, svc)

	recorder := performRequest(http.MethodPost, "/api/v1/convert", `{"value":75,"from":"F","to":"C"}`, server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"value":24,"exact":23.9,"unit":"C"}`, recorder.Body.String())

	recorder = performRequest(http.MethodPost, "/api/v1/convert", `{"value":75,"from":"F","to":"K"}`, server)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORS(t *testing.T) {
	server := newRouterUnderTest(t, &stubCalculator{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/vpd", nil)
	req.Header.Set("Origin", "https://grow.example")
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "https://grow.example", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/metrics", "", newRouterUnderTest(t, &stubCalculator{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://a.example", nil))
	require.Equal(t, "https://a.example", resolveOrigin("https://a.example", []string{"https://b.example", "https://a.example"}))
	require.Equal(t, "https://b.example", resolveOrigin("https://evil.example", []string{"https://b.example"}))
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, req)
	return recorder
}

func newRouterUnderTest(t *testing.T, svc vpdcalc.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"https://grow.example"},
		},
	}
	return NewRouter(cfg, handler, metrics.NewMetricsForTesting())
}

func newCalculator() vpdcalc.Service {
	return vpdcalc.NewService(vpdcalc.Config{
		DefaultTemperature: 75,
		DefaultUnit:        psychro.Fahrenheit,
		DefaultHumidity:    50,
		Resolution:         10,
	}, nil, metrics.NewMetricsForTesting(), newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubCalculator struct {
	calculateFn func(ctx context.Context, req vpdcalc.Request) (vpdcalc.Response, error)
	chartFn     func(ctx context.Context, req vpdcalc.ChartRequest) (heatmap.Frame, error)
	clickFn     func(ctx context.Context, req vpdcalc.ClickRequest) (vpdcalc.ClickResponse, error)
	convertFn   func(ctx context.Context, req vpdcalc.ConvertRequest) (vpdcalc.ConvertResponse, error)
	zones       []vpdcalc.ZoneInfo
}

func (s *stubCalculator) Calculate(ctx context.Context, req vpdcalc.Request) (vpdcalc.Response, error) {
	if s.calculateFn != nil {
		return s.calculateFn(ctx, req)
	}
	return vpdcalc.Response{}, nil
}

func (s *stubCalculator) Zones(ctx context.Context) []vpdcalc.ZoneInfo {
	return s.zones
}

func (s *stubCalculator) Chart(ctx context.Context, req vpdcalc.ChartRequest) (heatmap.Frame, error) {
	if s.chartFn != nil {
		return s.chartFn(ctx, req)
	}
	return heatmap.Frame{}, nil
}

func (s *stubCalculator) Click(ctx context.Context, req vpdcalc.ClickRequest) (vpdcalc.ClickResponse, error) {
	if s.clickFn != nil {
		return s.clickFn(ctx, req)
	}
	return vpdcalc.ClickResponse{}, nil
}

func (s *stubCalculator) Convert(ctx context.Context, req vpdcalc.ConvertRequest) (vpdcalc.ConvertResponse, error) {
	if s.convertFn != nil {
		return s.convertFn(ctx, req)
	}
	return vpdcalc.ConvertResponse{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
