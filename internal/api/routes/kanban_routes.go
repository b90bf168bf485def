package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
)

type KanbanRoutes struct {
	handler   *handlers.KanbanHandler
	jwtSecret string
}

func NewKanbanRoutes(handler *handlers.KanbanHandler, jwtSecret string) *KanbanRoutes {
	return &KanbanRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers board, list, card and timer routes
func (r *KanbanRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	authGuard := middleware.NewAuthMiddleware(r.jwtSecret)

	boards := router.Group("/api/boards")
	boards.Use(authGuard)
	boards.GET("", cache.CacheResponse(), r.handler.ListBoards)
	boards.POST("/add-member", cache.CacheInvalidate("boards:*"), r.handler.AddMember)
	boards.PUT("/:id", cache.CacheInvalidate("boards:*"), r.handler.UpdateBoard)
	boards.DELETE("/:id", cache.CacheInvalidate("boards:*", "lists:*", "cards:*"), r.handler.DeleteBoard)

	ceoBoards := boards.Group("")
	ceoBoards.Use(middleware.RequireCEO())
	ceoBoards.POST("", cache.CacheInvalidate("boards:*"), r.handler.CreateBoard)

	lists := router.Group("/api/lists")
	lists.Use(authGuard)
	lists.POST("", cache.CacheInvalidate("lists:*"), r.handler.CreateList)
	lists.GET("/:boardId", cache.CacheResponse(), r.handler.ListsByBoard)
	lists.PUT("/:id", cache.CacheInvalidate("lists:*"), r.handler.UpdateList)
	lists.DELETE("/:id", cache.CacheInvalidate("lists:*", "cards:*"), r.handler.DeleteList)

	cards := router.Group("/api/cards")
	cards.Use(authGuard)
	cards.POST("", cache.CacheInvalidate("cards:*"), r.handler.CreateCard)

	// Fixed segments before the parameterized ones.
	cards.GET("/progress/yesterday-incomplete", r.handler.YesterdayIncomplete)
	cards.POST("/progress/acknowledge", cache.CacheInvalidate("cards:*"), r.handler.Acknowledge)
	cards.GET("/analytics/:employeeId/:period", cache.CacheResponse(), r.handler.EmployeeWorkSummary)

	cards.GET("/:listId", cache.CacheResponse(), r.handler.CardsByList)
	cards.PUT("/:id", cache.CacheInvalidate("cards:*"), r.handler.UpdateCard)
	cards.DELETE("/:id", cache.CacheInvalidate("cards:*"), r.handler.DeleteCard)
	cards.POST("/:id/timer/start", cache.CacheInvalidate("cards:*"), r.handler.StartTimer)
	cards.POST("/:id/timer/stop", cache.CacheInvalidate("cards:*"), r.handler.StopTimer)
}
