package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable-surplus/internal/config"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/metrics"
	"renewable-surplus/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// now is 20:00 UTC; every fixture series starts there.
var now = time.Date(2023, 8, 15, 20, 0, 0, 0, time.UTC)

type stubFetcher struct {
	gen, load *model.MarketDocument
	err       error
	domains   []string
}

func (s *stubFetcher) FetchGenerationForecast(ctx context.Context, domain, start, end string) (*model.MarketDocument, error) {
	return s.gen, s.err
}

func (s *stubFetcher) FetchLoadForecast(ctx context.Context, domain, start, end string) (*model.MarketDocument, error) {
	s.domains = append(s.domains, domain)
	return s.load, s.err
}

func hourly(start string, quantities []float64) *model.MarketDocument {
	points := make([]model.Point, len(quantities))
	for i, q := range quantities {
		points[i] = model.Point{Position: i + 1, Quantity: q}
	}
	return &model.MarketDocument{TimeSeries: []model.TimeSeries{{
		Period: model.Period{
			TimeInterval: model.TimeInterval{Start: start},
			Resolution:   "PT60M",
			Points:       points,
		},
	}}}
}

// Load is flat 100 MW. Surplus by hour from 20:00: +50, +200, +80, +120,
// -10, 0, +10, then 0 for the rest of the 50 hours.
func fixtures() *stubFetcher {
	gen := make([]float64, 50)
	load := make([]float64, 50)
	for i := range gen {
		gen[i] = 100
		load[i] = 100
	}
	copy(gen, []float64{150, 300, 180, 220, 90, 100, 110})
	return &stubFetcher{
		gen:  hourly("2023-08-15T20:00Z", gen),
		load: hourly("2023-08-15T20:00Z", load),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, f forecast.Fetcher) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	return newTestRouterWithClock(t, f, func() time.Time { return now })
}

func newTestRouterWithClock(t *testing.T, f forecast.Fetcher, clock func() time.Time) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := forecast.NewService(f, forecast.WithClock(clock))
	r := NewRouter(Deps{
		Service:          svc,
		Metrics:          m,
		Gatherer:         reg,
		Lookahead:        config.LookaheadConfig{DefaultHours: 24, NightHours: 48, BufferHours: 1},
		AvailabilityFile: filepath.Join(t.TempDir(), "availability.json"),
	})
	return r, m
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func maxOf(t *testing.T, env envelope) map[string]any {
	t.Helper()
	require.True(t, env.Success)
	var out map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	w := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCountriesAndZones(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	env := decode(t, get(t, r, "/api/v1/countries"))
	var countries []string
	require.NoError(t, json.Unmarshal(env.Data, &countries))
	assert.Len(t, countries, 41)
	assert.Equal(t, "AL", countries[0])

	env = decode(t, get(t, r, "/api/v1/zones/de"))
	var zones []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &zones))
	require.Len(t, zones, 5)
	assert.Nil(t, zones[0]["tso"])
	assert.Equal(t, "50Hertz", zones[1]["tso"])

	w := get(t, r, "/api/v1/zones/XX")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestAvailabilityWithoutReport(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	w := get(t, r, "/api/v1/availability")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestAvailabilityReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "availability.json")
	require.NoError(t, data.SaveAvailability(&data.AvailabilityReport{
		DocumentType: "A65",
		Zones:        []data.ZoneAvailability{{Country: "BE", Code: "10YBE----------2", Points: 24}},
	}, path))

	svc := forecast.NewService(fixtures())
	r := NewRouter(Deps{Service: svc, Gatherer: prometheus.NewRegistry(), AvailabilityFile: path})

	env := decode(t, get(t, r, "/api/v1/availability"))
	var report data.AvailabilityReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, []string{"BE"}, report.AvailableCountries())
}

func TestNight(t *testing.T) {
	f := fixtures()
	r, m := newTestRouter(t, f)

	w := get(t, r, "/api/v1/renewable-surplus/be/night")
	assert.Equal(t, http.StatusOK, w.Code)
	got := maxOf(t, decode(t, w))
	assert.Equal(t, "2023-08-15T23:00:00Z", got["timestamp"])
	assert.Equal(t, "2023-08-15 23:00:00 UTC", got["timestamp_utc"])
	assert.Equal(t, 120.0, got["surplus_mw"])
	assert.Equal(t, 220.0, got["generation_mw"])
	assert.Equal(t, 220.0, got["renewable_penetration"])
	assert.Equal(t, "BE", got["country_code"])
	assert.Equal(t, "10YBE----------2", got["zone_code"])
	assert.Equal(t, "Night hours (22:00-06:00)", got["filter_applied"])
	assert.Equal(t, []string{"10YBE----------2"}, f.domains)

	assert.Equal(t, 120.0, testutil.ToFloat64(m.LastMaxSurplus.WithLabelValues("BE")))
}

func TestNextHours(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	got := maxOf(t, decode(t, get(t, r, "/api/v1/renewable-surplus/BE/next-6h")))
	assert.Equal(t, "2023-08-15T21:00:00Z", got["timestamp"])
	assert.Equal(t, 200.0, got["surplus_mw"])
	assert.Equal(t, "Next 6 hours from now", got["filter_applied"])

	got = maxOf(t, decode(t, get(t, r, "/api/v1/renewable-surplus/BE/next-24h")))
	assert.Equal(t, 200.0, got["surplus_mw"])

	// [20:00, 21:00] is closed at both ends.
	got = maxOf(t, decode(t, get(t, r, "/api/v1/renewable-surplus/BE/next?hours=1")))
	assert.Equal(t, 200.0, got["surplus_mw"])
	assert.Equal(t, "Next 1 hours from now", got["filter_applied"])

	w := get(t, r, "/api/v1/renewable-surplus/BE/next?hours=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = get(t, r, "/api/v1/renewable-surplus/BE/next?hours=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWindow(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	got := maxOf(t, decode(t, get(t, r, "/api/v1/renewable-surplus/BE/window?start=23:00&end=01:00")))
	assert.Equal(t, "2023-08-15T23:00:00Z", got["timestamp"])
	assert.Equal(t, "Daily window (23:00-01:00)", got["filter_applied"])

	for _, q := range []string{"start=25:00&end=01:00", "start=10:30abc&end=12:00", "start=1x:00&end=2:0junk"} {
		w := get(t, r, "/api/v1/renewable-surplus/BE/window?"+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "INVALID_WINDOW", decode(t, w).Error.Code, q)
	}
}

func TestSeriesSummaryTop(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	env := decode(t, get(t, r, "/api/v1/renewable-surplus/BE/series?hours=6"))
	var series struct {
		Count  int              `json:"count"`
		Points []map[string]any `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Equal(t, 7, series.Count)
	assert.Equal(t, "2023-08-15T20:00:00Z", series.Points[0]["timestamp"])
	assert.Equal(t, true, series.Points[0]["has_excess"])

	env = decode(t, get(t, r, "/api/v1/renewable-surplus/BE/summary?hours=6"))
	var summary struct {
		Summary struct {
			Count       int `json:"count"`
			ExcessCount int `json:"excess_count"`
		} `json:"summary"`
		Peak       map[string]any `json:"peak"`
		Generation struct {
			RawPoints  int                `json:"raw_points"`
			RawAverage float64            `json:"raw_average_mw"`
			RawMin     float64            `json:"raw_min_mw"`
			RawMax     float64            `json:"raw_max_mw"`
			Lowest     map[string]any     `json:"lowest"`
			Highest    map[string]any     `json:"highest"`
			Aggregated map[string]float64 `json:"aggregated"`
		} `json:"generation_forecast"`
		Load struct {
			RawAverage float64        `json:"raw_average_mw"`
			Highest    map[string]any `json:"highest"`
		} `json:"load_forecast"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 7, summary.Summary.Count)
	assert.Equal(t, 5, summary.Summary.ExcessCount)
	assert.Equal(t, 200.0, summary.Peak["surplus_mw"])

	assert.Equal(t, 50, summary.Generation.RawPoints)
	assert.InDelta(t, 109.0, summary.Generation.RawAverage, 1e-9)
	assert.Equal(t, 90.0, summary.Generation.RawMin)
	assert.Equal(t, 300.0, summary.Generation.RawMax)
	assert.Equal(t, "2023-08-15T21:00:00Z", summary.Generation.Highest["timestamp"])
	assert.Equal(t, 300.0, summary.Generation.Highest["mw"])
	assert.Equal(t, "2023-08-16T00:00:00Z", summary.Generation.Lowest["timestamp"])
	assert.Equal(t, 50.0, summary.Generation.Aggregated["count"])
	assert.Equal(t, 100.0, summary.Load.RawAverage)
	assert.Equal(t, "2023-08-15T20:00:00Z", summary.Load.Highest["timestamp"])

	env = decode(t, get(t, r, "/api/v1/renewable-surplus/BE/top?n=2"))
	var top struct {
		Points []map[string]any `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &top))
	require.Len(t, top.Points, 2)
	assert.Equal(t, 200.0, top.Points[0]["surplus_mw"])
	assert.Equal(t, 120.0, top.Points[1]["surplus_mw"])

	w := get(t, r, "/api/v1/renewable-surplus/BE/top?n=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmptyWindowIsNotAnError(t *testing.T) {
	f := &stubFetcher{
		gen:  hourly("2023-08-15T20:00Z", []float64{1, 2}),
		load: hourly("2023-08-20T20:00Z", []float64{1, 2}),
	}
	r, m := newTestRouter(t, f)

	w := get(t, r, "/api/v1/renewable-surplus/BE/night")
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "No night hours found in forecast period", env.Error.Message)

	env = decode(t, get(t, r, "/api/v1/renewable-surplus/BE/next?hours=12"))
	assert.False(t, env.Success)
	assert.Equal(t, "No data found for next 12 hours", env.Error.Message)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/api/v1/renewable-surplus/BE/plot").Code)

	env = decode(t, get(t, r, "/api/v1/renewable-surplus/BE/plot-json"))
	assert.False(t, env.Success)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryTotal.WithLabelValues("night", metrics.ResultEmpty)))
}

func TestUnknownCountry(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	for _, path := range []string{"night", "next-6h", "next-24h", "next", "series", "plot", "plot-json", "export"} {
		w := get(t, r, "/api/v1/renewable-surplus/XX/"+path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "UNKNOWN_COUNTRY", decode(t, w).Error.Code, path)
	}
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"rate limit", &data.EntsoeError{StatusCode: 429, Code: "RATE_LIMIT_EXCEEDED", RetryAfter: "30"}, 429, "RATE_LIMIT_EXCEEDED"},
		{"unauthorized", &data.EntsoeError{StatusCode: 401, Code: "UNAUTHORIZED"}, 401, "UNAUTHORIZED"},
		{"upstream 503", &data.EntsoeError{StatusCode: 503, Code: "API_ERROR"}, 500, "API_ERROR"},
		{"acknowledgement", model.InvalidResponse("<Reason><code>999</code></Reason>"), 502, "UPSTREAM_INVALID_RESPONSE"},
		{"bad series", model.InvalidResolution("P1D"), 502, "INVALID_SERIES"},
		{"network", context.DeadlineExceeded, 500, "FETCH_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newTestRouter(t, &stubFetcher{err: tt.err})
			w := get(t, r, "/api/v1/renewable-surplus/BE/next-24h")
			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryTotal.WithLabelValues("next-24h", metrics.ResultError)))
		})
	}
}

func TestPlot(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	w := get(t, r, "/api/v1/renewable-surplus/BE/plot?hours=6")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "Belgium (BE)")
	assert.Contains(t, w.Body.String(), "Plotly.newPlot")

	env := decode(t, get(t, r, "/api/v1/renewable-surplus/BE/plot-json?hours=6"))
	var plot struct {
		Timestamps []string  `json:"timestamps"`
		Surplus    []float64 `json:"surplus"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &plot))
	// Plots show the fetched series as returned, without the next-N filter.
	assert.Len(t, plot.Timestamps, 50)
	assert.Equal(t, 200.0, plot.Surplus[1])
}

func TestExport(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())

	w := get(t, r, "/api/v1/renewable-surplus/BE/export?hours=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="surplus_BE_20230815T2000Z.csv"`)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "timestamp,generation_mw,load_mw,surplus_mw,surplus_pct", lines[0])
	assert.Equal(t, "2023-08-15T21:00:00Z,300.00,100.00,200.00,66.67", lines[2])

	w = get(t, r, "/api/v1/renewable-surplus/BE/export?format=xlsx&hours=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))

	w = get(t, r, "/api/v1/renewable-surplus/BE/export?format=pdf&hours=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = get(t, r, "/api/v1/renewable-surplus/BE/export?format=docx")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportReadsClockOnce(t *testing.T) {
	// Every clock read moves 30 minutes forward.
	calls := 0
	clock := func() time.Time {
		defer func() { calls++ }()
		return now.Add(time.Duration(calls) * 30 * time.Minute)
	}
	r, _ := newTestRouterWithClock(t, fixtures(), clock)

	w := get(t, r, "/api/v1/renewable-surplus/BE/export?hours=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="surplus_BE_20230815T2000Z.csv"`)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2023-08-15T20:00:00Z,"))
	assert.True(t, strings.HasPrefix(lines[3], "2023-08-15T22:00:00Z,"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	get(t, r, "/api/v1/renewable-surplus/BE/next-6h")

	w := get(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `surplus_query_total{endpoint="next-6h",result="success"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/countries", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNoRoute(t *testing.T) {
	r, _ := newTestRouter(t, fixtures())
	w := get(t, r, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
