package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type AttendanceRoutes struct {
	handler   *handlers.AttendanceHandler
	jwtSecret string
}

func NewAttendanceRoutes(handler *handlers.AttendanceHandler, jwtSecret string) *AttendanceRoutes {
	return &AttendanceRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers attendance tracking routes
func (r *AttendanceRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	attendance := router.Group("/api/attendance")
	attendance.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	attendance.POST("/punchin", cache.CacheInvalidate("attendance:*"), r.handler.PunchIn)
	attendance.POST("/punchout", cache.CacheInvalidate("attendance:*"), r.handler.PunchOut)
	attendance.GET("/current", r.handler.Current)
	// Compress the roster-wide listings
	attendance.GET("/all", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), r.handler.ListAll)
	attendance.GET("/stats", cache.CacheResponse(), gzip.Gzip(gzip.DefaultCompression), r.handler.Stats)
	attendance.GET("/today", r.handler.Today)
	attendance.GET("/user/:userId", cache.CacheResponse(), r.handler.UserHistory)

	ceo := attendance.Group("")
	ceo.Use(middleware.RequireCEO())
	ceo.DELETE("/:id", cache.CacheInvalidate("attendance:*"), r.handler.Delete)
}
