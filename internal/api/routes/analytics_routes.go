package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type AnalyticsRoutes struct {
	handler   *handlers.AnalyticsHandler
	jwtSecret string
}

func NewAnalyticsRoutes(handler *handlers.AnalyticsHandler, jwtSecret string) *AnalyticsRoutes {
	return &AnalyticsRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers the reporting endpoints. All of them are CEO-only.
func (r *AnalyticsRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	analytics := router.Group("/api/analytics")
	analytics.Use(middleware.NewAuthMiddleware(r.jwtSecret), middleware.RequireCEO())
	// Compress the large report payloads
	analytics.GET("/all", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), r.handler.All)
	analytics.GET("/comprehensive", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), r.handler.Comprehensive)

	// PDF downloads bypass the cache; the payload is regenerated per request.
	analytics.GET("/download-pdf", r.handler.DownloadPDF)
	analytics.GET("/download-comprehensive-pdf", r.handler.DownloadComprehensivePDF)
}
