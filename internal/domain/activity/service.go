package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

// DefaultRetentionDays is how far back Purge keeps records when no explicit
// horizon is given.
const DefaultRetentionDays = 90

// Event describes a single action to record. The actor's name and role are
// resolved at write time.
type Event struct {
	ActorID    uuid.UUID
	Action     Action
	TargetType TargetType
	TargetID   uuid.UUID
	TargetName string
	Details    Details
	BoardID    *uuid.UUID
	BoardName  string
}

// EmployeeStats is the per-employee action histogram.
type EmployeeStats struct {
	UserID       uuid.UUID        `json:"userId"`
	Name         string           `json:"name"`
	SubRole      *user.SubRole    `json:"subRole"`
	Actions      map[Action]int64 `json:"actions"`
	Total        int64            `json:"totalActivities"`
	LastActivity *time.Time       `json:"lastActivity"`
}

// Service defines activity log operations. Record never reports failure to
// callers; the audit trail must not break the write path it observes.
type Service interface {
	Record(ctx context.Context, event Event)
	List(ctx context.Context, callerID uuid.UUID, callerRole user.Role, filter Filter) ([]Record, int64, error)
	Recent(ctx context.Context, callerID uuid.UUID, callerRole user.Role) ([]Record, error)
	StatsByEmployee(ctx context.Context, period string) ([]EmployeeStats, error)
	Purge(ctx context.Context, daysOld int) (int64, error)
}

type service struct {
	repo  Repository
	users user.Repository
	log   *logrus.Logger
	now   func() time.Time
}

func NewService(repo Repository, users user.Repository, log *logrus.Logger) Service {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return &service{repo: repo, users: users, log: log, now: time.Now}
}

func (s *service) Record(ctx context.Context, event Event) {
	if !event.Action.IsValid() {
		s.log.WithField("action", event.Action).Warn("activity: dropping record with unknown action")
		return
	}

	actor, err := s.users.FindByID(ctx, event.ActorID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", event.ActorID).Warn("activity: actor lookup failed")
		return
	}

	record := &Record{
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserRole:   actor.DisplayRole(),
		Action:     event.Action,
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		TargetName: event.TargetName,
		Details:    event.Details,
		BoardID:    event.BoardID,
		BoardName:  event.BoardName,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":    event.Action,
			"target_id": event.TargetID,
		}).Error("activity: record write failed")
	}
}

func (s *service) List(ctx context.Context, callerID uuid.UUID, callerRole user.Role, filter Filter) ([]Record, int64, error) {
	// Employees only ever see their own trail.
	if callerRole != user.RoleCEO {
		filter.UserID = &callerID
	}
	return s.repo.Find(ctx, filter)
}

func (s *service) Recent(ctx context.Context, callerID uuid.UUID, callerRole user.Role) ([]Record, error) {
	since := s.now().UTC().Add(-24 * time.Hour)
	filter := Filter{Since: &since, Limit: 20}
	if callerRole != user.RoleCEO {
		filter.UserID = &callerID
	}
	records, _, err := s.repo.Find(ctx, filter)
	return records, err
}

func (s *service) StatsByEmployee(ctx context.Context, period string) ([]EmployeeStats, error) {
	now := s.now().UTC()
	var since time.Time
	switch period {
	case "weekly":
		since = now.AddDate(0, 0, -7)
	case "monthly":
		since = now.AddDate(0, 0, -30)
	default:
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	employees, err := s.users.FindEmployees(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FindSince(ctx, since, nil)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID]*EmployeeStats, len(employees))
	stats := make([]EmployeeStats, 0, len(employees))
	for _, emp := range employees {
		stats = append(stats, EmployeeStats{
			UserID:  emp.ID,
			Name:    emp.Name,
			SubRole: emp.SubRole,
			Actions: make(map[Action]int64),
		})
		byUser[emp.ID] = &stats[len(stats)-1]
	}

	for _, rec := range records {
		entry, ok := byUser[rec.UserID]
		if !ok {
			continue
		}
		entry.Actions[rec.Action]++
		entry.Total++
		if entry.LastActivity == nil || rec.CreatedAt.After(*entry.LastActivity) {
			created := rec.CreatedAt
			entry.LastActivity = &created
		}
	}
	return stats, nil
}

func (s *service) Purge(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = DefaultRetentionDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -daysOld)
	deleted, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"deleted": deleted, "days_old": daysOld}).Info("activity: purge complete")
	return deleted, nil
}
