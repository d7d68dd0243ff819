package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"renewable-surplus/internal/api/models"
	"renewable-surplus/internal/report"
)

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

// Export handles GET /api/v1/renewable-surplus/:country/export?format=csv|xlsx|pdf&hours=N
func (h *SurplusHandler) Export(c *gin.Context) {
	defer h.observe("export", c, time.Now())

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	contentType, known := exportContentTypes[format]
	if !known {
		writeBadRequest(c, "INVALID_FORMAT", "format must be one of csv, xlsx, pdf")
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
	now := h.svc.Now()
	series, ok := h.upcoming(c, zone, now, n)
	if !ok {
		return
	}

	meta := report.Meta{
		CountryCode: zone.Country,
		CountryName: zone.Name,
		ZoneCode:    zone.Code,
		Start:       now,
		End:         now.Add(hours(n)),
		GeneratedAt: now,
	}

	var (
		body []byte
		err  error
	)
	switch format {
	case "csv":
		var buf bytes.Buffer
		err = report.WriteSurplusCSV(&buf, series)
		body = buf.Bytes()
	case "xlsx":
		body, err = report.BuildSurplusXLSX(meta, series)
	case "pdf":
		body, err = report.BuildSurplusPDF(meta, series)
	}
	if err != nil {
		h.log.Errorw("export failed", "format", format, "country", zone.Country, "error", err)
		c.JSON(http.StatusInternalServerError, models.Failure("EXPORT_FAILED", "Failed to build export"))
		return
	}

	filename := fmt.Sprintf("surplus_%s_%s.%s", zone.Country, now.Format("20060102T1504Z"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}
