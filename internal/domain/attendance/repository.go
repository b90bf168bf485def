package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("attendance record not found")
)

// HistoryFilter narrows a user's punch history by date range.
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Repository defines the interface for attendance persistence operations
type Repository interface {
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*Session, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]Session, error)
	FindAll(ctx context.Context, page, limit int) ([]SessionWithUser, int64, error)
	FindBetween(ctx context.Context, start, end time.Time) ([]SessionWithUser, error)
	StatsByUser(ctx context.Context, start, end time.Time) ([]UserStatsRow, error)
	TotalsByUser(ctx context.Context, start, end time.Time, userIDs []uuid.UUID) ([]UserTotalsRow, error)
}

// UserTotalsRow is the minimal per-user duration aggregation used by the
// analytics fan-in.
type UserTotalsRow struct {
	UserID         uuid.UUID
	TotalDuration  int64
	AttendanceDays int64
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *repository) Update(ctx context.Context, session *Session) error {
	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*Session, error) {
	var session Session
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND punch_out_time IS NULL", userID).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	return &session, nil
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]Session, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.StartDate != nil {
		query = query.Where("punch_in_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("punch_in_time <= ?", *filter.EndDate)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var sessions []Session
	if err := query.Order("punch_in_time DESC").Limit(limit).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) FindAll(ctx context.Context, page, limit int) ([]SessionWithUser, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []SessionWithUser
	err := r.db.WithContext(ctx).
		Table("attendance_sessions").
		Select("attendance_sessions.*, users.name AS user_name, users.email AS user_email, users.sub_role AS user_sub_role").
		Joins("JOIN users ON users.id = attendance_sessions.user_id").
		Order("attendance_sessions.punch_in_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repository) FindBetween(ctx context.Context, start, end time.Time) ([]SessionWithUser, error) {
	var records []SessionWithUser
	err := r.db.WithContext(ctx).
		Table("attendance_sessions").
		Select("attendance_sessions.*, users.name AS user_name, users.email AS user_email, users.sub_role AS user_sub_role").
		Joins("JOIN users ON users.id = attendance_sessions.user_id").
		Where("attendance_sessions.punch_in_time >= ? AND attendance_sessions.punch_in_time < ?", start, end).
		Order("attendance_sessions.punch_in_time DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) StatsByUser(ctx context.Context, start, end time.Time) ([]UserStatsRow, error) {
	var rows []UserStatsRow
	err := r.db.WithContext(ctx).
		Table("attendance_sessions").
		Select(`attendance_sessions.user_id AS user_id,
			users.name AS name,
			users.email AS email,
			users.sub_role AS sub_role,
			COUNT(*) AS total_sessions,
			COUNT(attendance_sessions.punch_out_time) AS completed_sessions,
			COUNT(*) - COUNT(attendance_sessions.punch_out_time) AS active_sessions,
			COALESCE(SUM(attendance_sessions.duration_seconds), 0) AS total_duration`).
		Joins("JOIN users ON users.id = attendance_sessions.user_id").
		Where("attendance_sessions.punch_in_time BETWEEN ? AND ?", start, end).
		Group("attendance_sessions.user_id, users.name, users.email, users.sub_role").
		Order("total_duration DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TotalsByUser(ctx context.Context, start, end time.Time, userIDs []uuid.UUID) ([]UserTotalsRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var rows []UserTotalsRow
	err := r.db.WithContext(ctx).
		Table("attendance_sessions").
		Select(`user_id AS user_id,
			COALESCE(SUM(duration_seconds), 0) AS total_duration,
			COUNT(DISTINCT DATE(punch_in_time)) AS attendance_days`).
		Where("user_id IN ? AND punch_in_time BETWEEN ? AND ?", userIDs, start, end).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
