package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"renewable-surplus/internal/api/models"
	"renewable-surplus/internal/report"
)

// Plot handles GET /api/v1/renewable-surplus/:country/plot?hours=N
// The page covers the whole fetched series, buffer hour included.
func (h *SurplusHandler) Plot(c *gin.Context) {
	defer h.observe("plot", c, time.Now())

	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, err := h.svc.Upcoming(c.Request.Context(), zone.Code, h.svc.Now(), n)
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	if len(series) == 0 {
		c.JSON(http.StatusNotFound, models.Failure("NO_DATA", "No data available"))
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPlotHTML(&buf, report.NewPlotPage(zone.Country, zone.Name, series)); err != nil {
		h.log.Errorw("template rendering failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.Failure("RENDER_FAILED", "Failed to render plot"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// PlotJSON handles GET /api/v1/renewable-surplus/:country/plot-json?hours=N
func (h *SurplusHandler) PlotJSON(c *gin.Context) {
	defer h.observe("plot-json", c, time.Now())

	n, ok := h.hoursParam(c)
	if !ok {
		return
	}
	zone, ok := h.zone(c)
	if !ok {
		return
	}
	series, err := h.svc.Upcoming(c.Request.Context(), zone.Code, h.svc.Now(), n)
	if err != nil {
		h.upstreamError(c, zone, err)
		return
	}
	if len(series) == 0 {
		c.Set(emptyKey, true)
		c.JSON(http.StatusOK, models.Failure("NO_DATA", "No data available"))
		return
	}
	c.JSON(http.StatusOK, models.Success(report.BuildPlotSeries(series)))
}
