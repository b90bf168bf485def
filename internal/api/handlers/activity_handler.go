package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
	"github.com/sysovo-official/clockify-backend/internal/domain/activity"
)

// ActivityHandler handles HTTP requests for the activity feed
type ActivityHandler struct {
	service activity.Service
}

func NewActivityHandler(service activity.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func (h *ActivityHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}
	role, _ := middleware.GetRole(c)

	filter := activity.Filter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user ID"})
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("boardId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
			return
		}
		filter.BoardID = &id
	}

	records, total, err := h.service.List(c.Request.Context(), userID, role, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	})
}

func (h *ActivityHandler) Recent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}
	role, _ := middleware.GetRole(c)

	records, err := h.service.Recent(c.Request.Context(), userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch recent activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}

func (h *ActivityHandler) EmployeeStats(c *gin.Context) {
	stats, err := h.service.StatsByEmployee(c.Request.Context(), c.DefaultQuery("period", "weekly"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compute activity stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *ActivityHandler) Cleanup(c *gin.Context) {
	daysOld, _ := strconv.Atoi(c.DefaultQuery("daysOld", "0"))

	deleted, err := h.service.Purge(c.Request.Context(), daysOld)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to purge activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"deletedCount": deleted}})
}
