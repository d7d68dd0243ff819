package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/model"
)

var t0 = time.Date(2023, 8, 15, 22, 0, 0, 0, time.UTC)

func sample() []model.SurplusPoint {
	return []model.SurplusPoint{
		model.NewSurplusPoint(t0, 100, 80),
		model.NewSurplusPoint(t0.Add(time.Hour), 150, 200),
		model.NewSurplusPoint(t0.Add(2*time.Hour), 0, 50),
	}
}

func sampleMeta() Meta {
	return Meta{
		CountryCode: "BE",
		CountryName: "Belgium",
		ZoneCode:    "10YBE----------2",
		Start:       t0,
		End:         t0.Add(24 * time.Hour),
		GeneratedAt: t0,
	}
}

func TestWriteSurplusCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSurplusCSV(&buf, sample()))

	want := strings.Join([]string{
		"timestamp,generation_mw,load_mw,surplus_mw,surplus_pct",
		"2023-08-15T22:00:00Z,100.00,80.00,20.00,20.00",
		"2023-08-15T23:00:00Z,150.00,200.00,-50.00,-33.33",
		"2023-08-16T00:00:00Z,0.00,50.00,-50.00,0.00",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteSurplusCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surplus.csv")
	require.NoError(t, WriteSurplusCSVFile(path, nil))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,generation_mw,load_mw,surplus_mw,surplus_pct\n", string(raw))

	assert.Error(t, WriteSurplusCSVFile(filepath.Join(t.TempDir(), "missing", "x.csv"), nil))
}

func TestBuildSurplusXLSX(t *testing.T) {
	raw, err := BuildSurplusXLSX(sampleMeta(), sample())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"summary", "series"}, f.GetSheetList())

	title, err := f.GetCellValue("summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Renewable Surplus - Belgium (BE)", title)

	rows, err := f.GetRows("series")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Timestamp (UTC)", rows[0][0])
	assert.Equal(t, "2023-08-15T22:00:00Z", rows[1][0])
	assert.Equal(t, "-50", rows[2][3])
}

func TestBuildSurplusPDF(t *testing.T) {
	raw, err := BuildSurplusPDF(sampleMeta(), sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	empty, err := BuildSurplusPDF(Meta{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, empty)
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	PrintPeak(&buf, sample()[0])
	PrintSeries(&buf, sample())
	out := buf.String()

	assert.Contains(t, out, "Time: 2023-08-15 22:00:00 UTC")
	assert.Contains(t, out, "Surplus %: 20.00%")
	assert.Contains(t, out, "Total data points: 3")
	assert.Contains(t, out, "2023-08-15 22:00 ✓ | Gen:  100.00 MW | Load:   80.00 MW | Surplus:  +20.00 MW")
	assert.Contains(t, out, "2023-08-15 23:00 ✗")
	assert.Contains(t, out, "(1 hours)")
	assert.Contains(t, out, "2023-08-15 22:00 | Surplus: 20.00 MW (20.0%)")
	assert.Contains(t, out, "2023-08-15T22:00:00Z,100.00,80.00,20.00,20.00")
}

func TestPrintForecastSummary(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2023, 8, 15, 22, 0, 0, 0, time.UTC)
	PrintForecastSummary(&buf, "Load", analysis.ForecastSummary{
		RawPoints:  3,
		RawAverage: 390,
		RawMin:     300,
		RawMax:     450,
		Lowest:     &analysis.Extreme{Timestamp: ts.Add(2 * time.Hour), MW: 300},
		Highest:    &analysis.Extreme{Timestamp: ts, MW: 450},
	})
	PrintForecastSummary(&buf, "Generation", analysis.ForecastSummary{})
	out := buf.String()

	assert.Contains(t, out, "Load: 3 raw points | avg 390.00 MW | raw min 300.00 MW | raw max 450.00 MW")
	assert.Contains(t, out, "lowest 300.00 MW at 2023-08-16 00:00 | highest 450.00 MW at 2023-08-15 22:00")
	assert.Contains(t, out, "Generation: 0 raw points")
	assert.Contains(t, out, "  no data")
}

func TestBuildFigure(t *testing.T) {
	fig := BuildFigure(sample())
	require.Len(t, fig.Traces, 3)
	assert.Equal(t, "Wind + Solar Generation", fig.Traces[0].Name)
	assert.Equal(t, "rgb(34, 139, 34)", fig.Traces[0].Line.Color)
	assert.Equal(t, "Total Load", fig.Traces[1].Name)
	assert.Equal(t, "Surplus (Generation - Load)", fig.Traces[2].Name)
	assert.Equal(t, []float64{20, -50, -50}, fig.Traces[2].Y)
	assert.Equal(t, "2023-08-15 22:00", fig.Traces[0].X[0])
	assert.Equal(t, "x unified", fig.Layout["hovermode"])

	s := BuildPlotSeries(sample())
	assert.Equal(t, "2023-08-15T22:00:00Z", s.Timestamps[0])
	assert.Equal(t, []float64{80, 200, 50}, s.Load)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamps":["2023-08-15T22:00:00Z"`)
}

func TestRenderPlotHTML(t *testing.T) {
	page := NewPlotPage("BE", "Belgium <script>", sample())
	assert.Equal(t, "2023-08-15 22:00 UTC", page.PeriodStart)
	assert.Equal(t, "2023-08-16 00:00 UTC", page.PeriodEnd)
	assert.Equal(t, 3, page.DataPoints)

	var buf bytes.Buffer
	require.NoError(t, RenderPlotHTML(&buf, page))
	html := buf.String()
	assert.Contains(t, html, "Plotly.newPlot")
	assert.Contains(t, html, "Total Load")
	assert.Contains(t, html, "Belgium &lt;script&gt;")
	assert.NotContains(t, html, "Belgium <script>")
}
