package report

import (
	"fmt"
	"time"
)

// Meta describes where an exported series came from.
type Meta struct {
	CountryCode string
	CountryName string
	ZoneCode    string
	Start       time.Time
	End         time.Time
	GeneratedAt time.Time
}

func (m Meta) Title() string {
	if m.CountryName == "" {
		return "Renewable Surplus"
	}
	return fmt.Sprintf("Renewable Surplus - %s (%s)", m.CountryName, m.CountryCode)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
