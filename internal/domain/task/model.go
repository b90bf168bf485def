package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

// Status is the workflow state of a task. Transitions are free-form.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "OnHold"
	StatusCompleted  Status = "Completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Task is a work item targeted at a department; AssignedUser pins it to a
// specific employee, nil leaves it open to everyone with the sub-role.
type Task struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title            string       `gorm:"not null" json:"title"`
	AssignedSubRole  user.SubRole `gorm:"not null;index" json:"assignedSubRole"`
	AssignedUser     *uuid.UUID   `gorm:"type:uuid;index" json:"assignedUser"`
	AssignedUserName string       `json:"assignedUserName"`
	Status           Status       `gorm:"not null;default:'Pending'" json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}
