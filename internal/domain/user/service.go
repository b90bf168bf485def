package user

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
)

// Service exposes identity and credential operations
type Service interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*User, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*User, error)
	ListEmployees(ctx context.Context) ([]User, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*User, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) (*User, error)
	DepartmentStats(ctx context.Context) (*DepartmentStats, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

type CreateEmployeeInput struct {
	Name     string
	Email    string
	Password string
	SubRole  *SubRole
}

type UpdateEmployeeInput struct {
	Name    *string
	Email   *string
	SubRole *SubRole
}

// DepartmentStats groups the employee roster by sub role
type DepartmentStats struct {
	TotalEmployees int          `json:"totalEmployees"`
	Departments    []Department `json:"departments"`
}

type Department struct {
	Name       string           `json:"name"`
	Count      int              `json:"count"`
	Percentage int              `json:"percentage"`
	Employees  []DepartmentUser `json:"employees"`
}

type DepartmentUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"createdAt"`
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}
	if input.SubRole != nil && !input.SubRole.IsValid() {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         RoleEmployee,
		SubRole:      input.SubRole,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetEmployee(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleEmployee {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListEmployees(ctx context.Context) ([]User, error) {
	return s.repo.FindEmployees(ctx)
}

func (s *service) UpdateEmployee(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*User, error) {
	u, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != u.Email {
		existing, err := s.repo.FindByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		u.Email = *input.Email
	}
	if input.Name != nil && *input.Name != "" {
		u.Name = *input.Name
	}
	if input.SubRole != nil {
		if !input.SubRole.IsValid() {
			return nil, ErrInvalidInput
		}
		u.SubRole = input.SubRole
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) (*User, error) {
	if len(newPassword) < 6 {
		return nil, ErrPasswordTooShort
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hashedPassword)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) DepartmentStats(ctx context.Context) (*DepartmentStats, error) {
	employees, err := s.repo.FindEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return buildDepartmentStats(employees), nil
}

// buildDepartmentStats groups employees by sub role, sorted by head count.
// Employees without a department land in "Unassigned".
func buildDepartmentStats(employees []User) *DepartmentStats {
	byDept := make(map[string][]DepartmentUser)
	for _, e := range employees {
		name := "Unassigned"
		if e.SubRole != nil {
			name = string(*e.SubRole)
		}
		byDept[name] = append(byDept[name], DepartmentUser{
			ID:        e.ID,
			Name:      e.Name,
			Email:     e.Email,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	total := len(employees)
	stats := &DepartmentStats{TotalEmployees: total}
	for name, members := range byDept {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(len(members)) / float64(total) * 100))
		}
		stats.Departments = append(stats.Departments, Department{
			Name:       name,
			Count:      len(members),
			Percentage: pct,
			Employees:  members,
		})
	}

	sort.Slice(stats.Departments, func(i, j int) bool {
		if stats.Departments[i].Count != stats.Departments[j].Count {
			return stats.Departments[i].Count > stats.Departments[j].Count
		}
		return stats.Departments[i].Name < stats.Departments[j].Name
	})

	return stats
}
