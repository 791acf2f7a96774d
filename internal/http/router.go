// Package http exposes the extraction API over HTTP.
package http

import (
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.osat.io/swath-api/internal/config"
	"go.osat.io/swath-api/internal/observability"
	"go.osat.io/swath-api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(extractor *usecase.Extractor, cfg *config.Config, metrics *observability.Metrics) *gin.Engine {
	router := gin.Default()

	// Setup CORS middleware. All origins are allowed unless configured.
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))
	router.Use(requestCounter(metrics))

	handler := NewHandler(extractor, cfg.DataDir, cfg.DefaultRadii, metrics)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/extract", handler.GetExtract)
	v1.GET("/products", handler.GetProducts)

	// Health check and metrics.
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestCounter counts requests by route pattern and status code. The
// route pattern keeps the label set bounded; unmatched paths share one
// label value.
func requestCounter(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
