package dto

// CreateTaskRequest creates a task; AssignedUser pins it to one employee.
type CreateTaskRequest struct {
	Title           string  `json:"title" binding:"required"`
	AssignedSubRole string  `json:"assignedSubRole" binding:"required"`
	AssignedUser    *string `json:"assignedUser"`
}

type UpdateTaskRequest struct {
	Title           *string `json:"title"`
	AssignedSubRole *string `json:"assignedSubRole"`
	AssignedUser    *string `json:"assignedUser"`
	ClearAssignee   bool    `json:"clearAssignee"`
	Status          *string `json:"status"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
