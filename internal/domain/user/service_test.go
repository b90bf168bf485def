package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users map[uuid.UUID]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) FindEmployees(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range f.users {
		if u.Role == RoleEmployee {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func TestCreateEmployeeAndAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo())
	subRole := SubRoleDeveloper

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		SubRole:  &subRole,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, created.Role)
	assert.NotEqual(t, "hunter22", created.PasswordHash)

	authed, err := svc.Authenticate(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)

	// Wrong password and unknown email collapse into the same error.
	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name: "imposter", Email: "alice@example.com", Password: "hunter22",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetEmployeeExcludesCEO(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	ceo := &User{ID: uuid.New(), Name: "CEO", Email: "ceo@example.com", Role: RoleCEO}
	require.NoError(t, repo.Create(context.Background(), ceo))

	_, err := svc.GetEmployee(context.Background(), ceo.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// GetUser has no role filter.
	fetched, err := svc.GetUser(context.Background(), ceo.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleCEO, fetched.Role)
}

func TestChangePasswordMinLength(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name: "alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = svc.ChangePassword(context.Background(), created.ID, "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.ChangePassword(context.Background(), created.ID, "longenough")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "longenough")
	assert.NoError(t, err)
}

func TestBuildDepartmentStats(t *testing.T) {
	dev := SubRoleDeveloper
	design := SubRoleDesigner
	employees := []User{
		{ID: uuid.New(), Name: "a", SubRole: &dev},
		{ID: uuid.New(), Name: "b", SubRole: &dev},
		{ID: uuid.New(), Name: "c", SubRole: &design},
		{ID: uuid.New(), Name: "d"},
	}

	stats := buildDepartmentStats(employees)
	assert.Equal(t, 4, stats.TotalEmployees)
	require.Len(t, stats.Departments, 3)

	// Sorted by count desc, then name.
	assert.Equal(t, "Developer", stats.Departments[0].Name)
	assert.Equal(t, 2, stats.Departments[0].Count)
	assert.Equal(t, 50, stats.Departments[0].Percentage)
	assert.Equal(t, "Designer", stats.Departments[1].Name)
	assert.Equal(t, 25, stats.Departments[1].Percentage)
	assert.Equal(t, "Unassigned", stats.Departments[2].Name)
}

func TestBuildDepartmentStatsEmptyRoster(t *testing.T) {
	stats := buildDepartmentStats(nil)
	assert.Equal(t, 0, stats.TotalEmployees)
	assert.Empty(t, stats.Departments)
}
