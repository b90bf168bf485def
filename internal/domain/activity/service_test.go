package activity

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

type fakeRepo struct {
	records   []Record
	createErr error
}

func (f *fakeRepo) Create(_ context.Context, record *Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = uuid.New()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRepo) Find(_ context.Context, filter Filter) ([]Record, int64, error) {
	var out []Record
	for _, r := range f.records {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.BoardID != nil && (r.BoardID == nil || *r.BoardID != *filter.BoardID) {
			continue
		}
		if filter.Since != nil && r.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) FindSince(_ context.Context, since time.Time, _ []uuid.UUID) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []Record
	var deleted int64
	for _, r := range f.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return deleted, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindEmployees(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.Role == user.RoleEmployee {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(repo Repository, users user.Repository, now time.Time) *service {
	return &service{repo: repo, users: users, log: quietLogger(), now: func() time.Time { return now }}
}

func TestRecordResolvesActor(t *testing.T) {
	subRole := user.SubRoleDesigner
	actor := &user.User{ID: uuid.New(), Name: "bob", Role: user.RoleEmployee, SubRole: &subRole}
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{actor.ID: actor}}
	repo := &fakeRepo{}
	svc := newTestService(repo, users, time.Now())

	svc.Record(context.Background(), Event{
		ActorID:    actor.ID,
		Action:     ActionCreatedCard,
		TargetType: TargetCard,
		TargetID:   uuid.New(),
		TargetName: "Design homepage",
	})

	require.Len(t, repo.records, 1)
	assert.Equal(t, "bob", repo.records[0].UserName)
	assert.Equal(t, "Designer", repo.records[0].UserRole)
}

func TestRecordSwallowsFailures(t *testing.T) {
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	repo := &fakeRepo{}
	svc := newTestService(repo, users, time.Now())

	// Unknown actor: nothing written, nothing panics.
	svc.Record(context.Background(), Event{
		ActorID: uuid.New(),
		Action:  ActionMovedCard,
	})
	assert.Empty(t, repo.records)

	// Unknown action: dropped before the lookup.
	svc.Record(context.Background(), Event{
		ActorID: uuid.New(),
		Action:  "logged_in",
	})
	assert.Empty(t, repo.records)
}

func TestListScopesEmployeesToSelf(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	repo := &fakeRepo{records: []Record{
		{UserID: me, Action: ActionCreatedCard},
		{UserID: other, Action: ActionDeletedCard},
	}}
	svc := newTestService(repo, &fakeUserRepo{users: map[uuid.UUID]*user.User{}}, time.Now())

	mine, total, err := svc.List(context.Background(), me, user.RoleEmployee, Filter{UserID: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, me, mine[0].UserID)

	all, total, err := svc.List(context.Background(), me, user.RoleCEO, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestPurgeCutoffIsStrict(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -DefaultRetentionDays)
	repo := &fakeRepo{records: []Record{
		{Action: ActionCreatedBoard, CreatedAt: cutoff.Add(-time.Second)},
		{Action: ActionCreatedBoard, CreatedAt: cutoff},
		{Action: ActionCreatedBoard, CreatedAt: now},
	}}
	svc := newTestService(repo, &fakeUserRepo{users: map[uuid.UUID]*user.User{}}, now)

	deleted, err := svc.Purge(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.records, 2)
}

func TestStatsByEmployeeHistogram(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	subRole := user.SubRoleDeveloper
	alice := &user.User{ID: uuid.New(), Name: "alice", Role: user.RoleEmployee, SubRole: &subRole}
	idle := &user.User{ID: uuid.New(), Name: "carol", Role: user.RoleEmployee}
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{alice.ID: alice, idle.ID: idle}}

	repo := &fakeRepo{records: []Record{
		{UserID: alice.ID, Action: ActionCreatedCard, CreatedAt: now.Add(-time.Hour)},
		{UserID: alice.ID, Action: ActionCreatedCard, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: alice.ID, Action: ActionMovedCard, CreatedAt: now.Add(-3 * time.Hour)},
		// Outside the weekly window, must not count.
		{UserID: alice.ID, Action: ActionDeletedCard, CreatedAt: now.AddDate(0, 0, -8)},
	}}
	svc := newTestService(repo, users, now)

	stats, err := svc.StatsByEmployee(context.Background(), "weekly")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byName := map[string]EmployeeStats{}
	for _, s := range stats {
		byName[s.Name] = s
	}

	assert.Equal(t, int64(3), byName["alice"].Total)
	assert.Equal(t, int64(2), byName["alice"].Actions[ActionCreatedCard])
	assert.Equal(t, int64(1), byName["alice"].Actions[ActionMovedCard])
	require.NotNil(t, byName["alice"].LastActivity)
	assert.Equal(t, now.Add(-time.Hour), *byName["alice"].LastActivity)

	assert.Equal(t, int64(0), byName["carol"].Total)
	assert.Nil(t, byName["carol"].LastActivity)
}
