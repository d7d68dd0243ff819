package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewable-surplus/internal/api/models"
	"renewable-surplus/internal/data"
)

// ZoneHandler serves the static zone registry and the availability report.
type ZoneHandler struct {
	availabilityPath string
}

func NewZoneHandler(availabilityPath string) *ZoneHandler {
	if availabilityPath == "" {
		availabilityPath = data.DefaultAvailabilityPath()
	}
	return &ZoneHandler{availabilityPath: availabilityPath}
}

// ListCountries handles GET /api/v1/countries
func (h *ZoneHandler) ListCountries(c *gin.Context) {
	c.JSON(http.StatusOK, models.Success(data.ListCountries()))
}

// ListZones handles GET /api/v1/zones/:country
func (h *ZoneHandler) ListZones(c *gin.Context) {
	zones, ok := data.ZonesByCountry(c.Param("country"))
	if !ok {
		c.JSON(http.StatusNotFound, models.Failure("NOT_FOUND",
			fmt.Sprintf("No bidding zones for country: %s", c.Param("country"))))
		return
	}

	out := make([]models.ZoneInfo, len(zones))
	for i, z := range zones {
		out[i] = models.ZoneInfo{Code: z.Code, Name: z.Name}
		if z.TSO != "" {
			tso := z.TSO
			out[i].TSO = &tso
		}
	}
	c.JSON(http.StatusOK, models.Success(out))
}

// Availability handles GET /api/v1/availability
func (h *ZoneHandler) Availability(c *gin.Context) {
	report, err := data.LoadAvailability(h.availabilityPath)
	if err != nil {
		// No check has run yet: report nothing rather than fail.
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusOK, models.Success(&data.AvailabilityReport{Zones: []data.ZoneAvailability{}}))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Failure("AVAILABILITY_LOAD_ERROR",
			fmt.Sprintf("Failed to load availability report: %v", err)))
		return
	}
	c.JSON(http.StatusOK, models.Success(report))
}
