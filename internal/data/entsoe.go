package data

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"renewable-surplus/internal/metrics"
	"renewable-surplus/internal/model"
)

const (
	DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

	DocumentTypeLoadForecast       = "A65"
	DocumentTypeGenerationForecast = "A71"
	ProcessTypeDayAhead            = "A01"

	// PeriodLayout is the ENTSO-E periodStart/periodEnd format (YYYYMMDDHHmm, UTC).
	PeriodLayout = "200601021504"

	maxBodyBytes = 32 << 20
)

// EntsoeClient fetches forecast documents from the ENTSO-E Transparency Platform.
// It is safe for concurrent use.
type EntsoeClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	log     *zap.SugaredLogger
	metrics *metrics.Metrics
	timeout time.Duration
}

type ClientOption func(*EntsoeClient)

func WithLogger(log *zap.SugaredLogger) ClientOption {
	return func(c *EntsoeClient) {
		if log != nil {
			c.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *EntsoeClient) { c.metrics = m }
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *EntsoeClient) {
		if hc != nil {
			c.Client = hc
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero means none. It is applied
// to a copy of the HTTP client, whatever the option order.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *EntsoeClient) { c.timeout = d }
}

// NewEntsoeClient creates a new ENTSO-E API client.
// If baseURL is empty, defaults to DefaultBaseURL.
func NewEntsoeClient(apiKey string, baseURL string, opts ...ClientOption) *EntsoeClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &EntsoeClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  &http.Client{},
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.Client
		hc.Timeout = c.timeout
		c.Client = &hc
	}
	return c
}

// QueryParams selects one document from the API.
type QueryParams struct {
	DocumentType string // A65 or A71
	DomainParam  string // outBiddingZone_Domain, in_Domain
	Domain       string // EIC code, e.g. "10YBE----------2"
	PeriodStart  string // YYYYMMDDHHmm
	PeriodEnd    string // YYYYMMDDHHmm
}

// EntsoeError represents a transport-level failure talking to ENTSO-E.
type EntsoeError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *EntsoeError) Error() string {
	return e.Message
}

// Query fetches and decodes a single GL_MarketDocument.
//
// An acknowledgement or error payload returned in place of a market document
// (body contains <Reason> or <code>) is reported as model.ErrInvalidResponse
// carrying the raw body.
func (c *EntsoeClient) Query(ctx context.Context, params QueryParams) (*model.MarketDocument, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("securityToken", c.APIKey)
	q.Set("documentType", params.DocumentType)
	q.Set("processType", ProcessTypeDayAhead)
	q.Set(params.DomainParam, params.Domain)
	q.Set("periodStart", params.PeriodStart)
	q.Set("periodEnd", params.PeriodEnd)
	u.RawQuery = q.Encode()

	// The token lives in the query string; never log u.String().
	c.log.Infow("request",
		"path", u.Path,
		"document_type", params.DocumentType,
		"domain", params.Domain,
		"period_start", params.PeriodStart,
		"period_end", params.PeriodEnd)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	started := time.Now()
	doc, err := c.do(req, params)
	duration := time.Since(started)
	if err != nil {
		c.metrics.ObserveFetch(params.DocumentType, metrics.ResultError, duration, 0)
		return nil, err
	}
	c.metrics.ObserveFetch(params.DocumentType, metrics.ResultSuccess, duration, doc.PointCount())
	c.log.Infow("success",
		"document_type", params.DocumentType,
		"domain", params.Domain,
		"series", len(doc.TimeSeries),
		"points", doc.PointCount(),
		"duration", duration)
	return doc, nil
}

func (c *EntsoeClient) do(req *http.Request, params QueryParams) (*model.MarketDocument, error) {
	started := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		c.log.Warnw("request failed", "error", err, "duration", time.Since(started))
		return nil, &EntsoeError{
			Code:    "REQUEST_FAILED",
			Message: fmt.Sprintf("failed to execute request: %s", redactToken(err.Error(), c.APIKey)),
		}
	}
	defer resp.Body.Close()

	c.log.Infow("response",
		"status", resp.StatusCode,
		"document_type", params.DocumentType,
		"domain", params.Domain,
		"duration", time.Since(started))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.log.Warnw("unauthorized", "domain", params.Domain)
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: invalid security token",
		}
	case http.StatusForbidden:
		c.log.Warnw("forbidden", "domain", params.Domain)
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid security token or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		c.log.Warnw("rate limited", "retry_after", retryAfter, "domain", params.Domain)
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "REQUEST_FAILED",
			Message:    fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	text := string(body)
	if IsErrorPayload(text) {
		c.log.Warnw("error payload", "status", resp.StatusCode, "domain", params.Domain, "body_bytes", len(body))
		return nil, model.InvalidResponse(text)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Errorw("api error", "status", resp.StatusCode, "domain", params.Domain)
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var doc model.MarketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		c.log.Errorw("decode failed", "error", err, "domain", params.Domain, "body_bytes", len(body))
		return nil, &EntsoeError{
			StatusCode: resp.StatusCode,
			Code:       "DECODE_ERROR",
			Message:    fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	return &doc, nil
}

// FetchLoadForecast fetches the day-ahead total load forecast (A65).
func (c *EntsoeClient) FetchLoadForecast(ctx context.Context, outBiddingZone, periodStart, periodEnd string) (*model.MarketDocument, error) {
	return c.Query(ctx, QueryParams{
		DocumentType: DocumentTypeLoadForecast,
		DomainParam:  "outBiddingZone_Domain",
		Domain:       outBiddingZone,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	})
}

// FetchGenerationForecast fetches the day-ahead wind and solar generation forecast (A71).
func (c *EntsoeClient) FetchGenerationForecast(ctx context.Context, inDomain, periodStart, periodEnd string) (*model.MarketDocument, error) {
	return c.Query(ctx, QueryParams{
		DocumentType: DocumentTypeGenerationForecast,
		DomainParam:  "in_Domain",
		Domain:       inDomain,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	})
}

// IsErrorPayload reports whether body is an acknowledgement/error document
// rather than market data.
func IsErrorPayload(body string) bool {
	return strings.Contains(body, "<Reason>") || strings.Contains(body, "<code>")
}

// FormatPeriod renders t in the API's period format, in UTC.
func FormatPeriod(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// ParsePeriod parses a YYYYMMDDHHmm period string as UTC.
func ParsePeriod(s string) (time.Time, error) {
	if len(s) != len(PeriodLayout) {
		return time.Time{}, fmt.Errorf("invalid period %q (expected YYYYMMDDHHmm)", s)
	}
	t, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q (expected YYYYMMDDHHmm): %w", s, err)
	}
	return t, nil
}

func (p QueryParams) validate() error {
	if p.DocumentType == "" {
		return fmt.Errorf("document_type is required")
	}
	if p.DomainParam == "" || p.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	start, err := ParsePeriod(p.PeriodStart)
	if err != nil {
		return err
	}
	end, err := ParsePeriod(p.PeriodEnd)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("period_start must be before period_end")
	}
	return nil
}

// validateAPIKey rejects a missing token and anything that is not shaped like
// the UUID tokens the platform issues.
func (c *EntsoeClient) validateAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &EntsoeError{
			Code:    "MISSING_API_KEY",
			Message: "ENTSO-E security token is required",
		}
	}
	if _, err := uuid.Parse(c.APIKey); err != nil {
		return &EntsoeError{
			Code:    "INVALID_API_KEY_FORMAT",
			Message: "ENTSO-E security token appears to be invalid (expected a UUID)",
		}
	}
	return nil
}

func redactToken(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "REDACTED")
}
