package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

var (
	ErrInvalidStatus  = errors.New("invalid task status")
	ErrInvalidSubRole = errors.New("invalid sub role")
	ErrTitleRequired  = errors.New("task title is required")
)

// CreateInput carries the fields accepted when creating a task.
type CreateInput struct {
	Title           string
	AssignedSubRole user.SubRole
	AssignedUser    *uuid.UUID
}

// UpdateInput carries optional fields for a task update.
type UpdateInput struct {
	Title           *string
	AssignedSubRole *user.SubRole
	AssignedUser    *uuid.UUID
	ClearAssignee   bool
	Status          *Status
}

// Service defines task business operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Task, error)
	MyTasks(ctx context.Context, userID uuid.UUID) ([]Task, error)
	ListAll(ctx context.Context) ([]Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	users user.Repository
}

func NewService(repo Repository, users user.Repository) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if !input.AssignedSubRole.IsValid() {
		return nil, ErrInvalidSubRole
	}

	task := &Task{
		Title:           input.Title,
		AssignedSubRole: input.AssignedSubRole,
		AssignedUser:    input.AssignedUser,
		Status:          StatusPending,
	}

	// Pinning to a specific employee snapshots their display name.
	if input.AssignedUser != nil {
		assignee, err := s.users.FindByID(ctx, *input.AssignedUser)
		if err != nil {
			return nil, err
		}
		task.AssignedUserName = assignee.Name
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) MyTasks(ctx context.Context, userID uuid.UUID) ([]Task, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindForUser(ctx, userID, u.SubRole)
}

func (s *service) ListAll(ctx context.Context) ([]Task, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.AssignedSubRole != nil {
		if !input.AssignedSubRole.IsValid() {
			return nil, ErrInvalidSubRole
		}
		task.AssignedSubRole = *input.AssignedSubRole
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearAssignee {
		task.AssignedUser = nil
		task.AssignedUserName = ""
	} else if input.AssignedUser != nil {
		assignee, err := s.users.FindByID(ctx, *input.AssignedUser)
		if err != nil {
			return nil, err
		}
		task.AssignedUser = input.AssignedUser
		task.AssignedUserName = assignee.Name
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
