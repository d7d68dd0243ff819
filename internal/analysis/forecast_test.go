package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable-surplus/internal/model"
)

func subSeries(qty ...float64) model.TimeSeries {
	points := make([]model.Point, len(qty))
	for i, q := range qty {
		points[i] = model.Point{Position: i + 1, Quantity: q}
	}
	return model.TimeSeries{Period: model.Period{
		TimeInterval: model.TimeInterval{Start: "2023-08-15T22:00Z"},
		Resolution:   "PT60M",
		Points:       points,
	}}
}

func TestSummarizeForecast(t *testing.T) {
	t.Run("raw and aggregated views differ", func(t *testing.T) {
		// Solar and wind: per instant 500, 400, 310.
		doc := &model.MarketDocument{TimeSeries: []model.TimeSeries{
			subSeries(0, 0, 10),
			subSeries(500, 400, 300),
		}}
		got, err := SummarizeForecast(doc)
		require.NoError(t, err)

		assert.Equal(t, 6, got.RawPoints)
		assert.Equal(t, 1210.0, got.RawTotal)
		assert.InDelta(t, 1210.0/6, got.RawAverage, 1e-9)
		assert.Equal(t, 0.0, got.RawMin)
		assert.Equal(t, 500.0, got.RawMax)

		assert.Equal(t, 3, got.Aggregated.Count)
		assert.Equal(t, 310.0, got.Aggregated.Min)
		assert.Equal(t, 500.0, got.Aggregated.Max)
		require.NotNil(t, got.Lowest)
		require.NotNil(t, got.Highest)
		assert.Equal(t, Extreme{Timestamp: t0.Add(2 * time.Hour), MW: 310}, *got.Lowest)
		assert.Equal(t, Extreme{Timestamp: t0, MW: 500}, *got.Highest)
	})

	t.Run("empty document", func(t *testing.T) {
		got, err := SummarizeForecast(&model.MarketDocument{})
		require.NoError(t, err)
		assert.Zero(t, got.RawPoints)
		assert.Zero(t, got.RawAverage)
		assert.Nil(t, got.Lowest)
		assert.Nil(t, got.Highest)

		got, err = SummarizeForecast(nil)
		require.NoError(t, err)
		assert.Zero(t, got.RawPoints)
	})

	t.Run("bad resolution", func(t *testing.T) {
		ts := subSeries(1)
		ts.Period.Resolution = "P1D"
		_, err := SummarizeForecast(&model.MarketDocument{TimeSeries: []model.TimeSeries{ts}})
		assert.ErrorIs(t, err, model.ErrInvalidResolution)
	})
}
