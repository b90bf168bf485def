package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type ActivityRoutes struct {
	handler   *handlers.ActivityHandler
	jwtSecret string
}

func NewActivityRoutes(handler *handlers.ActivityHandler, jwtSecret string) *ActivityRoutes {
	return &ActivityRoutes{handler: handler, jwtSecret: jwtSecret}
}

func (r *ActivityRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	activities := router.Group("/api/activities")
	activities.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	activities.GET("", r.handler.List)
	activities.GET("/recent", r.handler.Recent)

	ceo := activities.Group("")
	ceo.Use(middleware.RequireCEO())
	ceo.GET("/stats/employees", cache.CacheResponse(), r.handler.EmployeeStats)
	ceo.DELETE("/cleanup", cache.CacheInvalidate("activities:*"), r.handler.Cleanup)
}
