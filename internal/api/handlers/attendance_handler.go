package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
	"github.com/sysovo-official/clockify-backend/internal/domain/analytics"
	"github.com/sysovo-official/clockify-backend/internal/domain/attendance"
)

// AttendanceHandler handles HTTP requests for punch tracking
type AttendanceHandler struct {
	service attendance.Service
}

func NewAttendanceHandler(service attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func (h *AttendanceHandler) PunchIn(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	session, err := h.service.PunchIn(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyPunchedIn) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "already punched in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to punch in"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": session})
}

func (h *AttendanceHandler) PunchOut(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	session, err := h.service.PunchOut(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotPunchedIn) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no active session to punch out of"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to punch out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

func (h *AttendanceHandler) Current(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	session, err := h.service.CurrentSession(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch session"})
		return
	}

	if session == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"active": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"active": true, "session": session}})
}

func (h *AttendanceHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	records, total, err := h.service.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch attendance records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *AttendanceHandler) UserHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user ID"})
		return
	}

	filter := attendance.HistoryFilter{}
	if raw := c.Query("startDate"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid startDate"})
			return
		}
		filter.StartDate = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid endDate"})
			return
		}
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}

	history, err := h.service.History(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": history})
}

// statsWindow resolves the reporting window for the stats endpoint. An
// explicit startDate/endDate pair wins over the named range.
func statsWindow(timeRange analytics.TimeRange, dateStr, startStr, endStr string, now time.Time) (time.Time, time.Time, string, error) {
	if startStr != "" && endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, "", fmt.Errorf("invalid startDate")
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, "", fmt.Errorf("invalid endDate")
		}
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		label := start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
		return start, end, label, nil
	}

	anchor := now
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return time.Time{}, time.Time{}, "", fmt.Errorf("invalid date")
		}
		anchor = parsed
	}
	start, end := analytics.ResolveRange(timeRange, anchor)
	return start, end, analytics.RangeDisplay(timeRange, start, end), nil
}

func (h *AttendanceHandler) Stats(c *gin.Context) {
	timeRange := analytics.TimeRange(c.DefaultQuery("timeRange", "monthly"))
	start, end, period, err := statsWindow(timeRange,
		c.Query("date"), c.Query("startDate"), c.Query("endDate"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
		"period":  period,
	})
}

func (h *AttendanceHandler) Today(c *gin.Context) {
	records, err := h.service.Today(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch today's records"})
		return
	}

	active := 0
	completed := 0
	for _, r := range records {
		if r.IsCompleted() {
			completed++
		} else {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"summary": gin.H{
			"total":     len(records),
			"active":    active,
			"completed": completed,
		},
	})
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid attendance ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "attendance record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete attendance record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "attendance record deleted"})
}
