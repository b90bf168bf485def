package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type AuthRoutes struct {
	handler   *handlers.AuthHandler
	jwtSecret string
}

func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string) *AuthRoutes {
	return &AuthRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers authentication and employee management routes
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	auth := router.Group("/api/auth")

	// Credential endpoints stay outside the auth guard.
	auth.POST("/login", r.handler.Login)
	auth.POST("/logout", r.handler.Logout)

	protected := auth.Group("")
	protected.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	protected.POST("/add", cache.CacheInvalidate("auth:*"), r.handler.AddEmployee)
	protected.GET("/employees", cache.CacheResponse(), r.handler.ListEmployees)
	protected.GET("/employee/:id", cache.CacheResponse(), r.handler.GetEmployee)
	protected.PUT("/employee/:id", cache.CacheInvalidate("auth:*"), r.handler.UpdateEmployee)
	protected.DELETE("/employee/:id", cache.CacheInvalidate("auth:*"), r.handler.DeleteEmployee)

	ceo := protected.Group("")
	ceo.Use(middleware.RequireCEO())
	ceo.PUT("/employee/:id/change-password", r.handler.ChangePassword)
	ceo.GET("/department-stats", cache.CacheResponse(), r.handler.DepartmentStats)
}
