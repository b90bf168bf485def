package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// Repository defines the interface for task persistence operations
type Repository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindForUser(ctx context.Context, userID uuid.UUID, subRole *user.SubRole) ([]Task, error)
	FindCreatedBetween(ctx context.Context, start, end time.Time) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, task *Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	var task Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindForUser returns tasks pinned to the user plus department-targeted tasks
// matching their sub-role.
func (r *repository) FindForUser(ctx context.Context, userID uuid.UUID, subRole *user.SubRole) ([]Task, error) {
	query := r.db.WithContext(ctx)
	if subRole != nil {
		query = query.Where("assigned_user = ? OR (assigned_user IS NULL AND assigned_sub_role = ?)", userID, *subRole)
	} else {
		query = query.Where("assigned_user = ?", userID)
	}

	var tasks []Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", start, end).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) Update(ctx context.Context, task *Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
