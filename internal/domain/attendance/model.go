package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Session is one punch-in/punch-out interval for a user. At most one session
// per user may be open (PunchOutTime null) at any time; the storage layer
// enforces this with a partial unique index.
type Session struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_attendance_user"`
	PunchInTime     time.Time  `json:"punch_in_time" gorm:"not null;index:idx_attendance_punch_in"`
	PunchOutTime    *time.Time `json:"punch_out_time"`
	DurationSeconds int64      `json:"duration_seconds" gorm:"not null;default:0"`
}

func (Session) TableName() string {
	return "attendance_sessions"
}

// IsCompleted reports whether the session has been punched out.
func (s *Session) IsCompleted() bool {
	return s.PunchOutTime != nil
}

// SessionWithUser is a session row joined with its owner, for listings.
type SessionWithUser struct {
	Session
	UserName    string  `json:"user_name"`
	UserEmail   string  `json:"user_email"`
	UserSubRole *string `json:"user_sub_role"`
}

// UserStatsRow is the per-user aggregation over a time window.
type UserStatsRow struct {
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	SubRole           *string   `json:"sub_role"`
	TotalSessions     int64     `json:"total_sessions"`
	CompletedSessions int64     `json:"completed_sessions"`
	ActiveSessions    int64     `json:"active_sessions"`
	TotalDuration     int64     `json:"total_duration"`
}
