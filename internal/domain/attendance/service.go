package attendance

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPunchedIn = errors.New("already punched in")
	ErrNotPunchedIn     = errors.New("no active attendance session found")
)

// HistoryResult bundles a user's sessions with computed aggregates.
type HistoryResult struct {
	Sessions          []Session `json:"records"`
	TotalSessions     int       `json:"totalSessions"`
	CompletedSessions int       `json:"completedSessions"`
	ActiveSessions    int       `json:"activeSessions"`
	TotalHours        float64   `json:"totalHours"`
	AverageHoursPerDay float64  `json:"averageHoursPerDay"`
}

// UserStats is the serialized per-employee stats entry.
type UserStats struct {
	UserID                 uuid.UUID `json:"userId"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	SubRole                *string   `json:"subRole"`
	TotalSessions          int64     `json:"totalSessions"`
	CompletedSessions      int64     `json:"completedSessions"`
	ActiveSessions         int64     `json:"activeSessions"`
	TotalHours             float64   `json:"totalHours"`
	AverageHoursPerSession float64   `json:"averageHoursPerSession"`
}

// StatsSummary aggregates across all employees in the requested window.
type StatsSummary struct {
	TotalEmployees          int     `json:"totalEmployees"`
	TotalSessions           int64   `json:"totalSessions"`
	TotalHours              float64 `json:"totalHours"`
	AverageHoursPerEmployee float64 `json:"averageHoursPerEmployee"`
}

// StatsResult is the full company-wide stats payload.
type StatsResult struct {
	Stats   []UserStats  `json:"stats"`
	Summary StatsSummary `json:"summary"`
}

// Service defines attendance business operations.
type Service interface {
	PunchIn(ctx context.Context, userID uuid.UUID) (*Session, error)
	PunchOut(ctx context.Context, userID uuid.UUID) (*Session, error)
	CurrentSession(ctx context.Context, userID uuid.UUID) (*Session, error)
	History(ctx context.Context, userID uuid.UUID, filter HistoryFilter) (*HistoryResult, error)
	ListAll(ctx context.Context, page, limit int) ([]SessionWithUser, int64, error)
	Today(ctx context.Context) ([]SessionWithUser, error)
	Stats(ctx context.Context, start, end time.Time) (*StatsResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) PunchIn(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if _, err := s.repo.FindOpenByUser(ctx, userID); err == nil {
		return nil, ErrAlreadyPunchedIn
	} else if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	session := &Session{
		UserID:      userID,
		PunchInTime: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		// Lost a race against a concurrent punch-in; the partial unique
		// index rejects the second open session.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPunchedIn
		}
		return nil, err
	}
	return session, nil
}

func (s *service) PunchOut(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrNotPunchedIn
		}
		return nil, err
	}

	out := s.now().UTC()
	session.PunchOutTime = &out
	session.DurationSeconds = int64(out.Sub(session.PunchInTime).Seconds())

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CurrentSession returns nil without error when the user has no open session.
func (s *service) CurrentSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	session, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, filter HistoryFilter) (*HistoryResult, error) {
	sessions, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	result := &HistoryResult{
		Sessions:      sessions,
		TotalSessions: len(sessions),
	}

	var totalSeconds int64
	days := map[string]struct{}{}
	for _, sess := range sessions {
		if sess.IsCompleted() {
			result.CompletedSessions++
			totalSeconds += sess.DurationSeconds
		} else {
			result.ActiveSessions++
		}
		days[sess.PunchInTime.Format("2006-01-02")] = struct{}{}
	}

	result.TotalHours = round2(float64(totalSeconds) / 3600)
	if len(days) > 0 {
		result.AverageHoursPerDay = round2(result.TotalHours / float64(len(days)))
	}
	return result, nil
}

func (s *service) ListAll(ctx context.Context, page, limit int) ([]SessionWithUser, int64, error) {
	return s.repo.FindAll(ctx, page, limit)
}

func (s *service) Today(ctx context.Context) ([]SessionWithUser, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.FindBetween(ctx, start, start.AddDate(0, 0, 1))
}

func (s *service) Stats(ctx context.Context, start, end time.Time) (*StatsResult, error) {
	rows, err := s.repo.StatsByUser(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := &StatsResult{Stats: make([]UserStats, 0, len(rows))}
	var totalSeconds int64
	for _, row := range rows {
		entry := UserStats{
			UserID:            row.UserID,
			Name:              row.Name,
			Email:             row.Email,
			SubRole:           row.SubRole,
			TotalSessions:     row.TotalSessions,
			CompletedSessions: row.CompletedSessions,
			ActiveSessions:    row.ActiveSessions,
			TotalHours:        round2(float64(row.TotalDuration) / 3600),
		}
		if row.CompletedSessions > 0 {
			entry.AverageHoursPerSession = round2(entry.TotalHours / float64(row.CompletedSessions))
		}
		result.Stats = append(result.Stats, entry)
		result.Summary.TotalSessions += row.TotalSessions
		totalSeconds += row.TotalDuration
	}

	result.Summary.TotalEmployees = len(rows)
	result.Summary.TotalHours = round2(float64(totalSeconds) / 3600)
	if len(rows) > 0 {
		result.Summary.AverageHoursPerEmployee = round2(result.Summary.TotalHours / float64(len(rows)))
	}
	return result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
