package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ZoneAvailability records whether a bidding zone returned forecast data
// during the last check.
type ZoneAvailability struct {
	Country    string `json:"country"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Resolution string `json:"resolution,omitempty"`
	Error      string `json:"error,omitempty"`
	CheckedAt  string `json:"checked_at"` // RFC 3339
}

func (z ZoneAvailability) Available() bool {
	return z.Error == "" && z.Points > 0
}

// AvailabilityReport is the output of cmd/check-zones.
type AvailabilityReport struct {
	DocumentType string             `json:"document_type"`
	PeriodStart  string             `json:"period_start"`
	PeriodEnd    string             `json:"period_end"`
	UpdatedAt    string             `json:"updated_at"` // ISO 8601 timestamp
	Zones        []ZoneAvailability `json:"zones"`
}

// AvailableCountries lists countries whose checked zone returned data.
func (r *AvailabilityReport) AvailableCountries() []string {
	if r == nil {
		return nil
	}
	out := []string{}
	seen := map[string]bool{}
	for _, z := range r.Zones {
		if z.Available() && !seen[z.Country] {
			seen[z.Country] = true
			out = append(out, z.Country)
		}
	}
	return out
}

// LoadAvailability loads a report from a JSON file
func LoadAvailability(filePath string) (*AvailabilityReport, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability file: %w", err)
	}

	var report AvailabilityReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to parse availability file: %w", err)
	}

	return &report, nil
}

// SaveAvailability writes a report to a JSON file
func SaveAvailability(report *AvailabilityReport, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal availability report: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write availability file: %w", err)
	}

	return nil
}

// DefaultAvailabilityPath returns the default path for the availability report
func DefaultAvailabilityPath() string {
	if path := os.Getenv("AVAILABILITY_FILE"); path != "" {
		return path
	}
	return "./data/availability.json"
}
