package handlers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"renewable-surplus/internal/api/models"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/model"
)

// upstreamStatus maps a fetch or series error to an HTTP status and body.
func upstreamStatus(err error) (int, models.ErrorDetail) {
	var ee *data.EntsoeError
	if errors.As(err, &ee) {
		detail := models.ErrorDetail{
			Code:    ee.Code,
			Message: ee.Message,
			Details: map[string]interface{}{"status_code": ee.StatusCode},
		}
		switch ee.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusUnauthorized, detail
		case http.StatusTooManyRequests:
			detail.Details["retry_after"] = ee.RetryAfter
			return http.StatusTooManyRequests, detail
		}
		return http.StatusInternalServerError, detail
	}

	var se *model.SeriesError
	if errors.As(err, &se) {
		code := "INVALID_SERIES"
		message := "ENTSO-E returned an unusable forecast"
		if se.Kind == model.KindInvalidResponse {
			code = "UPSTREAM_INVALID_RESPONSE"
			if reason, ok := data.ReasonText(se.Detail); ok {
				message = reason
			}
		}
		return http.StatusBadGateway, models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: map[string]interface{}{
				"kind":   string(se.Kind),
				"detail": truncate(se.Detail, 512),
			},
		}
	}

	return http.StatusInternalServerError, models.ErrorDetail{
		Code:    "FETCH_FAILED",
		Message: "Failed to fetch forecast data",
	}
}

func writeUpstreamError(c *gin.Context, err error) {
	status, detail := upstreamStatus(err)
	_ = c.Error(err)
	c.JSON(status, models.APIResponse{Error: &detail})
}

func writeBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.Failure(code, message))
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
