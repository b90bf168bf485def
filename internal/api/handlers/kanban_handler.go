package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/api/dto"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
	"github.com/sysovo-official/clockify-backend/internal/domain/kanban"
)

// KanbanHandler handles HTTP requests for boards, lists, cards and timers
type KanbanHandler struct {
	service kanban.Service
}

func NewKanbanHandler(service kanban.Service) *KanbanHandler {
	return &KanbanHandler{service: service}
}

func requireCaller(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *KanbanHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "board name is required"})
		return
	}

	members := make([]uuid.UUID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid member ID"})
			return
		}
		members = append(members, id)
	}

	board, err := h.service.CreateBoard(c.Request.Context(), userID, req.Name, req.Description, members)
	if err != nil {
		if errors.Is(err, kanban.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": board})
}

func (h *KanbanHandler) ListBoards(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	role, _ := middleware.GetRole(c)

	boards, err := h.service.ListBoards(c.Request.Context(), userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch boards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": boards})
}

func (h *KanbanHandler) AddMember(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "boardId and userId are required"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user ID"})
		return
	}

	board, err := h.service.AddMember(c.Request.Context(), boardID, memberID)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "board not found"})
		case errors.Is(err, kanban.ErrAlreadyMember):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "user is already a board member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to add member"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": board})
}

func (h *KanbanHandler) UpdateBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
		return
	}

	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "board name is required"})
		return
	}

	board, err := h.service.UpdateBoard(c.Request.Context(), boardID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "board not found"})
		case errors.Is(err, kanban.ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update board"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": board})
}

func (h *KanbanHandler) DeleteBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
		return
	}

	if err := h.service.DeleteBoard(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, kanban.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "board deleted"})
}

func (h *KanbanHandler) CreateList(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title and boardId are required"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
		return
	}

	list, err := h.service.CreateList(c.Request.Context(), userID, boardID, req.Title, req.Position)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "board not found"})
		case errors.Is(err, kanban.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create list"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": list})
}

func (h *KanbanHandler) ListsByBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("boardId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid board ID"})
		return
	}

	lists, err := h.service.ListsByBoard(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, kanban.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch lists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": lists})
}

func (h *KanbanHandler) UpdateList(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid list ID"})
		return
	}

	var req dto.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	list, err := h.service.UpdateList(c.Request.Context(), userID, listID, kanban.UpdateListInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "list not found"})
		case errors.Is(err, kanban.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update list"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *KanbanHandler) DeleteList(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid list ID"})
		return
	}

	if err := h.service.DeleteList(c.Request.Context(), userID, listID); err != nil {
		if errors.Is(err, kanban.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "list deleted"})
}

func (h *KanbanHandler) CreateCard(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title and listId are required"})
		return
	}

	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid list ID"})
		return
	}

	input := kanban.CreateCardInput{
		Title:       req.Title,
		Description: req.Description,
		ListID:      listID,
		DueDate:     req.DueDate,
		Position:    req.Position,
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid assignee ID"})
			return
		}
		input.AssignedTo = &assignee
	}

	card, err := h.service.CreateCard(c.Request.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "list not found"})
		case errors.Is(err, kanban.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create card"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": card})
}

func (h *KanbanHandler) CardsByList(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid list ID"})
		return
	}

	cards, err := h.service.CardsByList(c.Request.Context(), listID)
	if err != nil {
		if errors.Is(err, kanban.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch cards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cards})
}

func (h *KanbanHandler) UpdateCard(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	role, _ := middleware.GetRole(c)

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid card ID"})
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input := kanban.UpdateCardInput{
		Title:         req.Title,
		Description:   req.Description,
		ClearAssignee: req.ClearAssignee,
		DueDate:       req.DueDate,
		Position:      req.Position,
	}
	if req.ListID != nil {
		listID, err := uuid.Parse(*req.ListID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid list ID"})
			return
		}
		input.ListID = &listID
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid assignee ID"})
			return
		}
		input.AssignedTo = &assignee
	}
	if req.Status != nil {
		status := kanban.CardStatus(*req.Status)
		input.Status = &status
	}

	card, err := h.service.UpdateCard(c.Request.Context(), userID, role, cardID, input)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrCardNotFound), errors.Is(err, kanban.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, kanban.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not allowed to modify this card"})
		case errors.Is(err, kanban.ErrTitleRequired), errors.Is(err, kanban.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update card"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": card})
}

func (h *KanbanHandler) DeleteCard(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	role, _ := middleware.GetRole(c)

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid card ID"})
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), userID, role, cardID); err != nil {
		switch {
		case errors.Is(err, kanban.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "card not found"})
		case errors.Is(err, kanban.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not allowed to delete this card"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete card"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "card deleted"})
}

func (h *KanbanHandler) StartTimer(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid card ID"})
		return
	}

	var req dto.StartTimerRequest
	// Note body is optional.
	_ = c.ShouldBindJSON(&req)

	entry, err := h.service.StartTimer(c.Request.Context(), cardID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "card not found"})
		case errors.Is(err, kanban.ErrTimerRunning):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "a timer is already running for this card"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to start timer"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": entry})
}

func (h *KanbanHandler) StopTimer(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid card ID"})
		return
	}

	card, entry, err := h.service.StopTimer(c.Request.Context(), cardID)
	if err != nil {
		switch {
		case errors.Is(err, kanban.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "card not found"})
		case errors.Is(err, kanban.ErrTimerNotRunning):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no running timer for this card"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to stop timer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"card": card, "timeEntry": entry}})
}

func (h *KanbanHandler) YesterdayIncomplete(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	cards, err := h.service.YesterdayIncomplete(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch carried-over cards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cards})
}

func (h *KanbanHandler) Acknowledge(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cardIds are required"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.CardIDs))
	for _, raw := range req.CardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid card ID"})
			return
		}
		ids = append(ids, id)
	}

	count, err := h.service.Acknowledge(c.Request.Context(), userID, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to acknowledge cards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"modifiedCount": count}})
}

func (h *KanbanHandler) EmployeeWorkSummary(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("employeeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
		return
	}

	summary, err := h.service.EmployeeWorkSummary(c.Request.Context(), employeeID, c.Param("period"))
	if err != nil {
		if errors.Is(err, kanban.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "period must be daily, weekly or monthly"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compute work summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}
