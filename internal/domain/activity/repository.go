package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
)

// Filter narrows the activity feed. Nil fields are ignored.
type Filter struct {
	UserID  *uuid.UUID
	BoardID *uuid.UUID
	Since   *time.Time
	Page    int
	Limit   int
}

// Repository defines the interface for activity persistence operations
type Repository interface {
	Create(ctx context.Context, record *Record) error
	Find(ctx context.Context, filter Filter) ([]Record, int64, error)
	FindSince(ctx context.Context, since time.Time, userIDs []uuid.UUID) ([]Record, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Find(ctx context.Context, filter Filter) ([]Record, int64, error) {
	query := r.db.WithContext(ctx).Model(&Record{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BoardID != nil {
		query = query.Where("board_id = ?", *filter.BoardID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var records []Record
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindSince returns every record after the cutoff, optionally limited to a
// set of actors. Used for the employee histogram.
func (r *repository) FindSince(ctx context.Context, since time.Time, userIDs []uuid.UUID) ([]Record, error) {
	query := r.db.WithContext(ctx).Where("created_at >= ?", since)
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}

	var records []Record
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Record{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
