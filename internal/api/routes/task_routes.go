package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers task management routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))

	tasks.POST("/add", cache.CacheInvalidate("tasks:*"), r.handler.Create)
	tasks.GET("/my-tasks", cache.CacheResponse(), r.handler.MyTasks)
	tasks.GET("/all", cache.CacheResponse(), r.handler.ListAll)
	tasks.PUT("/:id/status", cache.CacheInvalidate("tasks:*"), r.handler.UpdateStatus)
	tasks.PUT("/:id", cache.CacheInvalidate("tasks:*"), r.handler.Update)
	tasks.DELETE("/:id", cache.CacheInvalidate("tasks:*"), r.handler.Delete)
}
