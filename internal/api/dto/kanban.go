package dto

import "time"

type CreateBoardRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

type AddMemberRequest struct {
	BoardID string `json:"boardId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

type UpdateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateListRequest struct {
	Title    string `json:"title" binding:"required"`
	BoardID  string `json:"boardId" binding:"required"`
	Position int    `json:"position"`
}

type UpdateListRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ListID      string     `json:"listId" binding:"required"`
	AssignedTo  *string    `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	Position    int        `json:"position"`
}

type UpdateCardRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	ListID        *string    `json:"listId"`
	AssignedTo    *string    `json:"assignedTo"`
	ClearAssignee bool       `json:"clearAssignee"`
	DueDate       *time.Time `json:"dueDate"`
	Position      *int       `json:"position"`
	Status        *string    `json:"status"`
}

type StartTimerRequest struct {
	Note string `json:"note"`
}

// AcknowledgeRequest marks carried-over cards as seen by their assignee.
type AcknowledgeRequest struct {
	CardIDs []string `json:"cardIds" binding:"required"`
}
