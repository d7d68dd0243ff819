package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"renewable-surplus/internal/api/handlers"
	"renewable-surplus/internal/api/middleware"
	"renewable-surplus/internal/config"
	"renewable-surplus/internal/forecast"
	"renewable-surplus/internal/metrics"
)

// Deps wires the router to its collaborators.
type Deps struct {
	Service          *forecast.Service
	Logger           *zap.Logger
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Lookahead        config.LookaheadConfig
	AvailabilityFile string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log.Named("http")))
	router.Use(middleware.ErrorHandler())

	surplus := handlers.NewSurplusHandler(d.Service, d.Lookahead, log.Named("api").Sugar(), d.Metrics)
	zones := handlers.NewZoneHandler(d.AvailabilityFile)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.GET("/countries", zones.ListCountries)
		api.GET("/zones/:country", zones.ListZones)
		api.GET("/availability", zones.Availability)

		rs := api.Group("/renewable-surplus/:country")
		rs.GET("/night", surplus.Night)
		rs.GET("/next-6h", surplus.Next6h)
		rs.GET("/next-24h", surplus.Next24h)
		rs.GET("/next", surplus.NextHours)
		rs.GET("/window", surplus.Window)
		rs.GET("/series", surplus.Series)
		rs.GET("/summary", surplus.Summary)
		rs.GET("/top", surplus.Top)
		rs.GET("/plot", surplus.Plot)
		rs.GET("/plot-json", surplus.PlotJSON)
		rs.GET("/export", surplus.Export)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"data":    nil,
			"error":   gin.H{"code": "NOT_FOUND", "message": "Not found"},
		})
	})

	return router
}
