package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/analytics"
)

// AnalyticsHandler handles HTTP requests for reporting
type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func reportParams(c *gin.Context) (analytics.TimeRange, time.Time, bool) {
	timeRange := analytics.TimeRange(c.DefaultQuery("timeRange", "monthly"))
	anchor := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid date, expected YYYY-MM-DD"})
			return "", time.Time{}, false
		}
		anchor = parsed
	}
	return timeRange, anchor, true
}

func (h *AnalyticsHandler) All(c *gin.Context) {
	timeRange, anchor, ok := reportParams(c)
	if !ok {
		return
	}

	report, err := h.service.All(c.Request.Context(), timeRange, anchor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to build analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func (h *AnalyticsHandler) Comprehensive(c *gin.Context) {
	timeRange, anchor, ok := reportParams(c)
	if !ok {
		return
	}

	var employeeID *uuid.UUID
	if raw := c.Query("employeeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
			return
		}
		employeeID = &id
	}

	report, err := h.service.Comprehensive(c.Request.Context(), timeRange, anchor, employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to build analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func (h *AnalyticsHandler) DownloadPDF(c *gin.Context) {
	timeRange, anchor, ok := reportParams(c)
	if !ok {
		return
	}

	data, err := h.service.PDF(c.Request.Context(), timeRange, anchor)
	if err != nil {
		if errors.Is(err, analytics.ErrNoEmployees) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no employees to report on"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate report"})
		return
	}

	filename := fmt.Sprintf("analytics-report-%s-%d.pdf", timeRange, time.Now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *AnalyticsHandler) DownloadComprehensivePDF(c *gin.Context) {
	timeRange, anchor, ok := reportParams(c)
	if !ok {
		return
	}

	var employeeID *uuid.UUID
	if raw := c.Query("employeeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
			return
		}
		employeeID = &id
	}

	data, err := h.service.ComprehensivePDF(c.Request.Context(), timeRange, anchor, employeeID)
	if err != nil {
		if errors.Is(err, analytics.ErrNoEmployees) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no employees to report on"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to generate report"})
		return
	}

	filename := fmt.Sprintf("comprehensive-report-%s-%d.pdf", timeRange, time.Now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
