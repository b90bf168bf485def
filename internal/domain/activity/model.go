package activity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action enumerates everything the board surface can do worth auditing.
type Action string

const (
	ActionCreatedBoard      Action = "created_board"
	ActionCreatedList       Action = "created_list"
	ActionCreatedCard       Action = "created_card"
	ActionUpdatedCard       Action = "updated_card"
	ActionMovedCard         Action = "moved_card"
	ActionMovedList         Action = "moved_list"
	ActionDeletedCard       Action = "deleted_card"
	ActionDeletedList       Action = "deleted_list"
	ActionChangedCardStatus Action = "changed_card_status"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreatedBoard, ActionCreatedList, ActionCreatedCard,
		ActionUpdatedCard, ActionMovedCard, ActionMovedList,
		ActionDeletedCard, ActionDeletedList, ActionChangedCardStatus:
		return true
	}
	return false
}

type TargetType string

const (
	TargetBoard TargetType = "board"
	TargetList  TargetType = "list"
	TargetCard  TargetType = "card"
)

// Details carries the action-specific context. The shape is closed: every
// field an action can set is declared here, unused ones stay empty.
type Details struct {
	OldStatus    string     `json:"oldStatus,omitempty"`
	NewStatus    string     `json:"newStatus,omitempty"`
	FromListID   *uuid.UUID `json:"fromListId,omitempty"`
	ToListID     *uuid.UUID `json:"toListId,omitempty"`
	ListID       *uuid.UUID `json:"listId,omitempty"`
	ListName     string     `json:"listName,omitempty"`
	FromPosition *int       `json:"fromPosition,omitempty"`
	ToPosition   *int       `json:"toPosition,omitempty"`
}

// Value implements the driver.Valuer interface for Details
func (d Details) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for Details
func (d *Details) Scan(value interface{}) error {
	if value == nil {
		*d = Details{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal Details value: %v", value)
	}
	return json.Unmarshal(bytes, d)
}

// Record is one audited event. Actor name and role are snapshotted at write
// time so the feed survives employee deletion.
type Record struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_user" json:"userId"`
	UserName   string     `gorm:"not null" json:"userName"`
	UserRole   string     `gorm:"not null" json:"userRole"`
	Action     Action     `gorm:"not null;index:idx_activity_action" json:"action"`
	TargetType TargetType `gorm:"not null" json:"targetType"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null" json:"targetId"`
	TargetName string     `json:"targetName"`
	Details    Details    `gorm:"type:jsonb" json:"details"`
	BoardID    *uuid.UUID `gorm:"type:uuid;index:idx_activity_board" json:"boardId"`
	BoardName  string     `json:"boardName"`
	CreatedAt  time.Time  `gorm:"index:idx_activity_created" json:"createdAt"`
}

func (Record) TableName() string {
	return "activity_records"
}
