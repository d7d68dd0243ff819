package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/api/models"
	"renewable-surplus/internal/config"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/metrics"
	"renewable-surplus/internal/model"
)

const (
	emptyKey = "surplus_empty"

	maxHours   = 24 * 365
	defaultTop = 5
	maxTop     = 100
)

// SurplusHandler serves the renewable-surplus endpoints.
type SurplusHandler struct {
	svc       *forecast.Service
	lookahead config.LookaheadConfig
	log       *zap.SugaredLogger
	metrics   *metrics.Metrics
}

// NewSurplusHandler creates a new surplus handler
func NewSurplusHandler(svc *forecast.Service, lookahead config.LookaheadConfig, log *zap.SugaredLogger, m *metrics.Metrics) *SurplusHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SurplusHandler{svc: svc, lookahead: lookahead, log: log, metrics: m}
}

// Night handles GET /api/v1/renewable-surplus/:country/night
func (h *SurplusHandler) Night(c *gin.Context) {
	defer h.observe("night", c, time.Now())

	zone, ok := h.zone(c)
	if !ok {
		return
	}
	now := h.svc.Now()
	series, err := h.svc.SurplusSeries(c.Request.Context(), zone.Code, now, now.Add(hours(h.lookahead.NightHours)))
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	h.respondMax(c, zone, analysis.FilterNight(series), analysis.NightWindow{}.Name(),
		"No night hours found in forecast period")
}

// Next6h handles GET /api/v1/renewable-surplus/:country/next-6h
func (h *SurplusHandler) Next6h(c *gin.Context) {
	h.next(c, "next-6h", 6)
}

// Next24h handles GET /api/v1/renewable-surplus/:country/next-24h
func (h *SurplusHandler) Next24h(c *gin.Context) {
	h.next(c, "next-24h", 24)
}

// NextHours handles GET /api/v1/renewable-surplus/:country/next?hours=N
func (h *SurplusHandler) NextHours(c *gin.Context) {
	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	h.next(c, "next", n)
}

func (h *SurplusHandler) next(c *gin.Context, endpoint string, n int) {
	defer h.observe(endpoint, c, time.Now())

	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, ok := h.upcoming(c, zone, h.svc.Now(), n)
	if !ok {
		return
	}
	h.respondMax(c, zone, series, fmt.Sprintf("Next %d hours from now", n),
		fmt.Sprintf("No data found for next %d hours", n))
}

// Window handles GET /api/v1/renewable-surplus/:country/window?start=HH:MM&end=HH:MM&hours=N
func (h *SurplusHandler) Window(c *gin.Context) {
	defer h.observe("window", c, time.Now())

	w, err := analysis.ParseDailyWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		writeBadRequest(c, "INVALID_WINDOW", err.Error())
		return
	}
	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, ok := h.upcoming(c, zone, h.svc.Now(), n)
	if !ok {
		return
	}
	h.respondMax(c, zone, analysis.FilterWindow(series, w), w.Name(),
		fmt.Sprintf("No data found in %s over the next %d hours", w.Name(), n))
}

// Series handles GET /api/v1/renewable-surplus/:country/series?hours=N
func (h *SurplusHandler) Series(c *gin.Context) {
	defer h.observe("series", c, time.Now())

	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, ok := h.upcoming(c, zone, h.svc.Now(), n)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.Success(models.SeriesResponse{
		CountryCode: zone.Country,
		ZoneCode:    zone.Code,
		Hours:       n,
		Count:       len(series),
		Points:      models.NewSurplusPoints(series),
	}))
}

// Summary handles GET /api/v1/renewable-surplus/:country/summary?hours=N
func (h *SurplusHandler) Summary(c *gin.Context) {
	defer h.observe("summary", c, time.Now())

	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	now := h.svc.Now()
	pair, fetched, err := h.svc.UpcomingWithDocuments(c.Request.Context(), zone.Code, now, n)
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	genSummary, err := analysis.SummarizeForecast(pair.Generation)
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	loadSummary, err := analysis.SummarizeForecast(pair.Load)
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	series := analysis.FilterNextHours(fetched, now, n)

	resp := models.SummaryResponse{
		CountryCode:        zone.Country,
		ZoneCode:           zone.Code,
		Hours:              n,
		Summary:            analysis.SummarizeSurplus(series),
		GenerationForecast: genSummary,
		LoadForecast:       loadSummary,
	}
	if best, found := analysis.FindMax(series); found {
		peak := models.NewMaxSurplusResponse(zone.Country, zone.Code, fmt.Sprintf("Next %d hours from now", n), best)
		resp.Peak = &peak
	}
	c.JSON(http.StatusOK, models.Success(resp))
}

// Top handles GET /api/v1/renewable-surplus/:country/top?n=K&hours=N
func (h *SurplusHandler) Top(c *gin.Context) {
	defer h.observe("top", c, time.Now())

	k := defaultTop
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTop {
			writeBadRequest(c, "INVALID_PARAM", fmt.Sprintf("n must be an integer between 1 and %d", maxTop))
			return
		}
		k = v
	}
	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, ok := h.upcoming(c, zone, h.svc.Now(), n)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.Success(models.TopResponse{
		CountryCode: zone.Country,
		ZoneCode:    zone.Code,
		Hours:       n,
		Points:      models.NewSurplusPoints(analysis.TopSurplus(series, k)),
	}))
}

// upcoming fetches [now, now+n+buffer] and keeps [now, now+n]. It writes the
// error response itself and reports ok=false on failure.
func (h *SurplusHandler) upcoming(c *gin.Context, zone data.BiddingZone, now time.Time, n int) ([]model.SurplusPoint, bool) {
	series, err := h.svc.Upcoming(c.Request.Context(), zone.Code, now, n)
	if err != nil {
		h.upstreamError(c, zone, err)
		return nil, false
	}
	return analysis.FilterNextHours(series, now, n), true
}

func (h *SurplusHandler) respondMax(c *gin.Context, zone data.BiddingZone, series []model.SurplusPoint, filter, emptyMessage string) {
	best, ok := analysis.FindMax(series)
	if !ok {
		c.Set(emptyKey, true)
		c.JSON(http.StatusOK, models.Failure("NO_DATA", emptyMessage))
		return
	}
	h.metrics.SetMaxSurplus(zone.Country, best.Surplus)
	c.JSON(http.StatusOK, models.Success(models.NewMaxSurplusResponse(zone.Country, zone.Code, filter, best)))
}

// zone resolves the :country path parameter to its primary zone.
func (h *SurplusHandler) zone(c *gin.Context) (data.BiddingZone, bool) {
	country := c.Param("country")
	zone, ok := data.PrimaryZone(country)
	if !ok {
		writeBadRequest(c, "UNKNOWN_COUNTRY", fmt.Sprintf("Unknown country code: %s", country))
		return data.BiddingZone{}, false
	}
	return zone, true
}

func (h *SurplusHandler) hoursParam(c *gin.Context) (int, bool) {
	raw := c.Query("hours")
	if raw == "" {
		return h.lookahead.DefaultHours, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxHours {
		writeBadRequest(c, "INVALID_PARAM", fmt.Sprintf("hours must be an integer between 1 and %d", maxHours))
		return 0, false
	}
	return n, true
}

func (h *SurplusHandler) upstreamError(c *gin.Context, zone data.BiddingZone, err error) {
	h.log.Errorw("ENTSO-E fetch failed", "country", zone.Country, "zone", zone.Code, "error", err)
	writeUpstreamError(c, err)
}

func (h *SurplusHandler) observe(endpoint string, c *gin.Context, start time.Time) {
	result := metrics.ResultSuccess
	switch {
	case c.Writer.Status() >= 400:
		result = metrics.ResultError
	case c.GetBool(emptyKey):
		result = metrics.ResultEmpty
	}
	h.metrics.ObserveQuery(endpoint, result, time.Since(start))
}

func hours(n int) time.Duration {
	return time.Duration(n) * time.Hour
}
