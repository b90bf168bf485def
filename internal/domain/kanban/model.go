package kanban

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardStatus is the four-state workflow of a card.
type CardStatus string

const (
	CardStatusPending    CardStatus = "Pending"
	CardStatusInProgress CardStatus = "In Progress"
	CardStatusOnHold     CardStatus = "OnHold"
	CardStatusCompleted  CardStatus = "Completed"
)

func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusPending, CardStatusInProgress, CardStatusOnHold, CardStatusCompleted:
		return true
	}
	return false
}

type UUIDSlice []uuid.UUID

// Value implements the driver.Valuer interface for UUIDSlice
func (u UUIDSlice) Value() (driver.Value, error) {
	if len(u) == 0 {
		return "[]", nil
	}
	return json.Marshal(u)
}

// Scan implements the sql.Scanner interface for UUIDSlice
func (u *UUIDSlice) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal UUIDSlice value: %v", value)
	}
	return json.Unmarshal(bytes, u)
}

func (u UUIDSlice) Contains(id uuid.UUID) bool {
	for _, member := range u {
		if member == id {
			return true
		}
	}
	return false
}

// Board groups lists of cards. Members see the board alongside its creator.
type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	Members     UUIDSlice `gorm:"type:jsonb" json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Board) TableName() string {
	return "boards"
}

// List is a column on a board, ordered by Position.
type List struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index" json:"boardId"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (List) TableName() string {
	return "board_lists"
}

// Card is a unit of work on a list. StartTime is set by the first timer run
// and never moves; EndTime tracks the latest stop.
type Card struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title                  string     `gorm:"not null" json:"title"`
	Description            string     `json:"description"`
	ListID                 uuid.UUID  `gorm:"type:uuid;not null;index" json:"listId"`
	AssignedTo             *uuid.UUID `gorm:"type:uuid;index" json:"assignedTo"`
	DueDate                *time.Time `json:"dueDate"`
	Position               int        `gorm:"not null;default:0" json:"position"`
	Status                 CardStatus `gorm:"not null;default:'Pending'" json:"status"`
	StartTime              *time.Time `json:"startTime"`
	EndTime                *time.Time `json:"endTime"`
	TotalMinutes           int64      `gorm:"not null;default:0" json:"totalMinutes"`
	CarriedFromDate        *time.Time `json:"carriedFromDate"`
	IsCarriedOver          bool       `gorm:"not null;default:false" json:"isCarriedOver"`
	AcknowledgedByEmployee bool       `gorm:"not null;default:false" json:"acknowledgedByEmployee"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func (Card) TableName() string {
	return "cards"
}

// TimeEntry is one timer run against a card.
type TimeEntry struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CardID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"cardId"`
	StartTime       time.Time  `gorm:"not null" json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationMinutes int64      `gorm:"not null;default:0" json:"durationMinutes"`
	Note            string     `json:"note"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (TimeEntry) TableName() string {
	return "card_time_entries"
}

// CardWithList joins a card to its list title for breakdowns.
type CardWithList struct {
	Card
	ListTitle string `json:"listTitle"`
}
