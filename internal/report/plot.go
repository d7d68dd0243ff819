package report

import (
	_ "embed"
	"html/template"
	"io"
	"time"

	"renewable-surplus/internal/model"
)

//go:embed templates/plot.html
var plotHTML string

var plotTemplate = template.Must(template.New("plot").Parse(plotHTML))

// PlotSeries is the column-oriented form served to frontends.
type PlotSeries struct {
	Timestamps []string  `json:"timestamps"`
	Generation []float64 `json:"generation"`
	Load       []float64 `json:"load"`
	Surplus    []float64 `json:"surplus"`
}

// Trace is a Plotly scatter trace.
type Trace struct {
	X      []string    `json:"x"`
	Y      []float64   `json:"y"`
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Mode   string      `json:"mode"`
	Line   TraceLine   `json:"line"`
	Marker TraceMarker `json:"marker"`
}

type TraceLine struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type TraceMarker struct {
	Size int `json:"size"`
}

// Figure is the Plotly data and layout pair.
type Figure struct {
	Traces []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// PlotPage feeds the HTML template.
type PlotPage struct {
	CountryCode string
	CountryName string
	PeriodStart string
	PeriodEnd   string
	DataPoints  int
	Figure      Figure
}

func BuildPlotSeries(points []model.SurplusPoint) PlotSeries {
	s := PlotSeries{
		Timestamps: make([]string, len(points)),
		Generation: make([]float64, len(points)),
		Load:       make([]float64, len(points)),
		Surplus:    make([]float64, len(points)),
	}
	for i, p := range points {
		s.Timestamps[i] = p.Timestamp.UTC().Format(time.RFC3339)
		s.Generation[i] = p.Generation
		s.Load[i] = p.Load
		s.Surplus[i] = p.Surplus
	}
	return s
}

// BuildFigure builds the generation, load and surplus traces.
func BuildFigure(points []model.SurplusPoint) Figure {
	x := make([]string, len(points))
	for i, p := range points {
		x[i] = p.Timestamp.UTC().Format("2006-01-02 15:04")
	}
	s := BuildPlotSeries(points)

	trace := func(name, color string, y []float64) Trace {
		return Trace{
			X:      x,
			Y:      y,
			Name:   name,
			Type:   "scatter",
			Mode:   "lines+markers",
			Line:   TraceLine{Color: color, Width: 2},
			Marker: TraceMarker{Size: 4},
		}
	}

	return Figure{
		Traces: []Trace{
			trace("Wind + Solar Generation", "rgb(34, 139, 34)", s.Generation),
			trace("Total Load", "rgb(30, 144, 255)", s.Load),
			trace("Surplus (Generation - Load)", "rgb(255, 140, 0)", s.Surplus),
		},
		Layout: map[string]any{
			"title": map[string]any{
				"text": "Renewable Energy Forecast",
				"font": map[string]any{"size": 20},
			},
			"xaxis":         map[string]any{"title": "Time", "tickangle": -45},
			"yaxis":         map[string]any{"title": "Power (MW)"},
			"hovermode":     "x unified",
			"plot_bgcolor":  "rgb(250, 250, 250)",
			"paper_bgcolor": "white",
			"showlegend":    true,
			"legend": map[string]any{
				"x":           0.01,
				"y":           0.99,
				"bgcolor":     "rgba(255, 255, 255, 0.8)",
				"bordercolor": "rgba(0, 0, 0, 0.2)",
				"borderwidth": 1,
			},
		},
	}
}

// NewPlotPage fills a page for a non-empty series.
func NewPlotPage(countryCode, countryName string, points []model.SurplusPoint) PlotPage {
	page := PlotPage{
		CountryCode: countryCode,
		CountryName: countryName,
		DataPoints:  len(points),
		Figure:      BuildFigure(points),
	}
	if len(points) > 0 {
		page.PeriodStart = points[0].Timestamp.UTC().Format("2006-01-02 15:04 UTC")
		page.PeriodEnd = points[len(points)-1].Timestamp.UTC().Format("2006-01-02 15:04 UTC")
	}
	return page
}

func RenderPlotHTML(w io.Writer, page PlotPage) error {
	return plotTemplate.Execute(w, page)
}
