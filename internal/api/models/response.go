package models

import (
	"time"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/model"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    any          `json:"data"`
	Error   *ErrorDetail `json:"error"`
}

func Success(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func Failure(code, message string) APIResponse {
	return APIResponse{Error: &ErrorDetail{Code: code, Message: message}}
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MaxSurplusResponse describes the best hour found under a filter.
type MaxSurplusResponse struct {
	CountryCode          string  `json:"country_code"`
	ZoneCode             string  `json:"zone_code"`
	Timestamp            string  `json:"timestamp"`
	TimestampUTC         string  `json:"timestamp_utc"`
	GenerationMW         float64 `json:"generation_mw"`
	LoadMW               float64 `json:"load_mw"`
	SurplusMW            float64 `json:"surplus_mw"`
	SurplusPercentage    float64 `json:"surplus_percentage"`
	RenewablePenetration float64 `json:"renewable_penetration"`
	FilterApplied        string  `json:"filter_applied"`
}

func NewMaxSurplusResponse(country, zone, filter string, p model.SurplusPoint) MaxSurplusResponse {
	ts := p.Timestamp.UTC()
	return MaxSurplusResponse{
		CountryCode:          country,
		ZoneCode:             zone,
		Timestamp:            ts.Format(time.RFC3339),
		TimestampUTC:         ts.Format("2006-01-02 15:04:05 UTC"),
		GenerationMW:         p.Generation,
		LoadMW:               p.Load,
		SurplusMW:            p.Surplus,
		SurplusPercentage:    p.Percentage(),
		RenewablePenetration: p.RenewablePenetration(),
		FilterApplied:        filter,
	}
}

// SurplusPointResponse is one row of a series response.
type SurplusPointResponse struct {
	Timestamp         string  `json:"timestamp"`
	GenerationMW      float64 `json:"generation_mw"`
	LoadMW            float64 `json:"load_mw"`
	SurplusMW         float64 `json:"surplus_mw"`
	SurplusPercentage float64 `json:"surplus_percentage"`
	HasExcess         bool    `json:"has_excess"`
}

func NewSurplusPoints(points []model.SurplusPoint) []SurplusPointResponse {
	out := make([]SurplusPointResponse, len(points))
	for i, p := range points {
		out[i] = SurplusPointResponse{
			Timestamp:         p.Timestamp.UTC().Format(time.RFC3339),
			GenerationMW:      p.Generation,
			LoadMW:            p.Load,
			SurplusMW:         p.Surplus,
			SurplusPercentage: p.Percentage(),
			HasExcess:         p.HasExcess(),
		}
	}
	return out
}

type SeriesResponse struct {
	CountryCode string                 `json:"country_code"`
	ZoneCode    string                 `json:"zone_code"`
	Hours       int                    `json:"hours"`
	Count       int                    `json:"count"`
	Points      []SurplusPointResponse `json:"points"`
}

type SummaryResponse struct {
	CountryCode string                  `json:"country_code"`
	ZoneCode    string                  `json:"zone_code"`
	Hours       int                     `json:"hours"`
	Summary     analysis.SurplusSummary `json:"summary"`
	Peak        *MaxSurplusResponse     `json:"peak,omitempty"`
	// Raw document views cover the whole fetched period, buffer included.
	GenerationForecast analysis.ForecastSummary `json:"generation_forecast"`
	LoadForecast       analysis.ForecastSummary `json:"load_forecast"`
}

type TopResponse struct {
	CountryCode string                 `json:"country_code"`
	ZoneCode    string                 `json:"zone_code"`
	Hours       int                    `json:"hours"`
	Points      []SurplusPointResponse `json:"points"`
}

// ZoneInfo represents one bidding zone of a country
type ZoneInfo struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	TSO  *string `json:"tso"`
}
