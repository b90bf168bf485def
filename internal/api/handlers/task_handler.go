package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/api/dto"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
	"github.com/sysovo-official/clockify-backend/internal/domain/task"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

// TaskHandler handles HTTP requests for task operations
type TaskHandler struct {
	service task.Service
}

func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input := task.CreateInput{
		Title:           req.Title,
		AssignedSubRole: user.SubRole(req.AssignedSubRole),
	}
	if req.AssignedUser != nil {
		id, err := uuid.Parse(*req.AssignedUser)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid assigned user ID"})
			return
		}
		input.AssignedUser = &id
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, task.ErrTitleRequired), errors.Is(err, task.ErrInvalidSubRole):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "assigned user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create task"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return
	}

	tasks, err := h.service.MyTasks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks})
}

func (h *TaskHandler) ListAll(c *gin.Context) {
	tasks, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tasks})
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, task.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, task.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, task.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input := task.UpdateInput{
		Title:         req.Title,
		ClearAssignee: req.ClearAssignee,
	}
	if req.AssignedSubRole != nil {
		subRole := user.SubRole(*req.AssignedSubRole)
		input.AssignedSubRole = &subRole
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		input.Status = &status
	}
	if req.AssignedUser != nil {
		assignee, err := uuid.Parse(*req.AssignedUser)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid assigned user ID"})
			return
		}
		input.AssignedUser = &assignee
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, task.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
		case errors.Is(err, task.ErrTitleRequired),
			errors.Is(err, task.ErrInvalidSubRole),
			errors.Is(err, task.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "assigned user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid task ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "task deleted"})
}
