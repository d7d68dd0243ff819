package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "availability.json")
	report := &AvailabilityReport{
		DocumentType: "A65",
		PeriodStart:  "202308150000",
		PeriodEnd:    "202308160000",
		UpdatedAt:    "2023-08-16T00:00:00Z",
		Zones: []ZoneAvailability{
			{Country: "BE", Code: "10YBE----------2", Name: "Belgium", Points: 96, Resolution: "PT15M"},
			{Country: "BY", Code: "10Y1001A1001A51S", Name: "Belarus", Error: "no data"},
			{Country: "IS", Code: "IS", Name: "Iceland"},
		},
	}
	require.NoError(t, SaveAvailability(report, path))

	loaded, err := LoadAvailability(path)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
	assert.Equal(t, []string{"BE"}, loaded.AvailableCountries())
}

func TestDefaultAvailabilityPath(t *testing.T) {
	t.Setenv("AVAILABILITY_FILE", "/tmp/zones.json")
	assert.Equal(t, "/tmp/zones.json", DefaultAvailabilityPath())
	t.Setenv("AVAILABILITY_FILE", "")
	assert.Equal(t, "./data/availability.json", DefaultAvailabilityPath())
}
