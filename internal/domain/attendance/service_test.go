package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	sessions map[uuid.UUID]*Session
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[uuid.UUID]*Session)}
}

func (f *fakeRepo) Create(_ context.Context, session *Session) error {
	session.ID = uuid.New()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(_ context.Context, session *Session) error {
	if _, ok := f.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*Session, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.PunchOutTime == nil {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (f *fakeRepo) FindByUser(_ context.Context, userID uuid.UUID, _ HistoryFilter) ([]Session, error) {
	var out []Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindAll(_ context.Context, _, _ int) ([]SessionWithUser, int64, error) {
	return nil, int64(len(f.sessions)), nil
}

func (f *fakeRepo) FindBetween(_ context.Context, _, _ time.Time) ([]SessionWithUser, error) {
	return nil, nil
}

func (f *fakeRepo) StatsByUser(_ context.Context, _, _ time.Time) ([]UserStatsRow, error) {
	return nil, nil
}

func (f *fakeRepo) TotalsByUser(_ context.Context, _, _ time.Time, _ []uuid.UUID) ([]UserTotalsRow, error) {
	return nil, nil
}

func newTestService(repo Repository, now time.Time) *service {
	return &service{repo: repo, now: func() time.Time { return now }}
}

func TestPunchInOutCycle(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	svc := newTestService(repo, start)
	session, err := svc.PunchIn(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, start, session.PunchInTime)
	assert.Nil(t, session.PunchOutTime)

	// Punching in again while a session is open must be rejected.
	_, err = svc.PunchIn(context.Background(), userID)
	assert.ErrorIs(t, err, ErrAlreadyPunchedIn)

	svc = newTestService(repo, start.Add(8*time.Hour+30*time.Minute))
	closed, err := svc.PunchOut(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, closed.PunchOutTime)
	assert.Equal(t, int64(8*3600+30*60), closed.DurationSeconds)

	// A completed session frees the user to punch in again.
	_, err = svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)
}

func TestPunchOutWithoutOpenSession(t *testing.T) {
	svc := newTestService(newFakeRepo(), time.Now())
	_, err := svc.PunchOut(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotPunchedIn)
}

func TestCurrentSessionAbsent(t *testing.T) {
	svc := newTestService(newFakeRepo(), time.Now())
	session, err := svc.CurrentSession(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestHistoryAggregates(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	out1 := day1.Add(4 * time.Hour)
	out2 := day2.Add(2 * time.Hour)
	sessions := []*Session{
		{UserID: userID, PunchInTime: day1, PunchOutTime: &out1, DurationSeconds: 4 * 3600},
		{UserID: userID, PunchInTime: day2, PunchOutTime: &out2, DurationSeconds: 2 * 3600},
		{UserID: userID, PunchInTime: day2.Add(5 * time.Hour)},
	}
	for _, s := range sessions {
		require.NoError(t, repo.Create(context.Background(), s))
	}

	svc := newTestService(repo, day2.Add(6*time.Hour))
	result, err := svc.History(context.Background(), userID, HistoryFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalSessions)
	assert.Equal(t, 2, result.CompletedSessions)
	assert.Equal(t, 1, result.ActiveSessions)
	assert.Equal(t, 6.0, result.TotalHours)
	// Two distinct punch-in days.
	assert.Equal(t, 3.0, result.AverageHoursPerDay)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 8.5, 8.5},
		{"truncates", 7.4567, 7.46},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, round2(tt.in))
		})
	}
}
