package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/attendance"
	"github.com/sysovo-official/clockify-backend/internal/domain/kanban"
	"github.com/sysovo-official/clockify-backend/internal/domain/task"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

var ErrNoEmployees = errors.New("no employees to report on")

// TaskStats counts one employee's tasks per status.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	OnHold     int `json:"onHold"`
	Pending    int `json:"pending"`
}

// CardStats counts one employee's cards per status plus tracked time.
type CardStats struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	InProgress   int     `json:"inProgress"`
	OnHold       int     `json:"onHold"`
	Pending      int     `json:"pending"`
	TotalMinutes int64   `json:"totalMinutes"`
	TotalHours   float64 `json:"totalHours"`
}

// AttendanceStats is one employee's punch totals in the window.
type AttendanceStats struct {
	TotalHoursWorked float64 `json:"totalHoursWorked"`
	AttendanceDays   int64   `json:"attendanceDays"`
}

// EmployeeReport is one row of the report.
type EmployeeReport struct {
	UserID     uuid.UUID       `json:"userId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	SubRole    *user.SubRole   `json:"subRole"`
	Tasks      TaskStats       `json:"tasks"`
	Attendance AttendanceStats `json:"attendance"`
}

// Summary aggregates the whole roster.
type Summary struct {
	TotalEmployees   int     `json:"totalEmployees"`
	TotalTasks       int     `json:"totalTasks"`
	CompletedTasks   int     `json:"completedTasks"`
	TotalHoursWorked float64 `json:"totalHoursWorked"`
}

// Report is the basic analytics payload.
type Report struct {
	TimeRange TimeRange        `json:"timeRange"`
	Period    string           `json:"period"`
	Start     time.Time        `json:"startDate"`
	End       time.Time        `json:"endDate"`
	Employees []EmployeeReport `json:"employees"`
	Summary   Summary          `json:"summary"`
}

// ListBreakdownRow is one board-list slice of the comprehensive report.
type ListBreakdownRow struct {
	ListID       uuid.UUID `json:"listId"`
	ListTitle    string    `json:"listTitle"`
	TotalCards   int       `json:"totalCards"`
	Completed    int       `json:"completed"`
	TotalMinutes int64     `json:"totalMinutes"`
}

// TimeTracking splits one employee's tracked card time (whole hours plus
// leftover minutes) next to their punch totals.
type TimeTracking struct {
	CardMinutes          int64   `json:"trelloMinutes"`
	CardHours            int64   `json:"trelloHours"`
	CardRemainingMinutes int64   `json:"trelloRemainingMinutes"`
	AttendanceHours      float64 `json:"attendanceHours"`
	AttendanceDays       int64   `json:"attendanceDays"`
}

// ComprehensiveEmployee extends the basic row with card data.
type ComprehensiveEmployee struct {
	EmployeeReport
	Cards        CardStats          `json:"cards"`
	Boards       []ListBreakdownRow `json:"boardBreakdown"`
	TimeTracking TimeTracking       `json:"timeTracking"`
}

// ComprehensiveSummary extends the roster summary with card totals.
type ComprehensiveSummary struct {
	Summary
	TotalCards        int     `json:"totalCards"`
	CompletedCards    int     `json:"completedCards"`
	TotalTrackedHours float64 `json:"totalTrackedHours"`
}

// ComprehensiveReport is the extended analytics payload.
type ComprehensiveReport struct {
	TimeRange TimeRange               `json:"timeRange"`
	Period    string                  `json:"period"`
	Start     time.Time               `json:"startDate"`
	End       time.Time               `json:"endDate"`
	Employees []ComprehensiveEmployee `json:"employees"`
	Lists     []ListBreakdownRow      `json:"listBreakdown"`
	Summary   ComprehensiveSummary    `json:"summary"`
}

// Service defines the reporting operations.
type Service interface {
	All(ctx context.Context, timeRange TimeRange, date time.Time) (*Report, error)
	Comprehensive(ctx context.Context, timeRange TimeRange, date time.Time, employeeID *uuid.UUID) (*ComprehensiveReport, error)
	PDF(ctx context.Context, timeRange TimeRange, date time.Time) ([]byte, error)
	ComprehensivePDF(ctx context.Context, timeRange TimeRange, date time.Time, employeeID *uuid.UUID) ([]byte, error)
}

type service struct {
	users      user.Repository
	tasks      task.Repository
	cards      kanban.Repository
	attendance attendance.Repository
}

func NewService(users user.Repository, tasks task.Repository, cards kanban.Repository, att attendance.Repository) Service {
	return &service{users: users, tasks: tasks, cards: cards, attendance: att}
}

func (s *service) All(ctx context.Context, timeRange TimeRange, date time.Time) (*Report, error) {
	start, end := ResolveRange(timeRange, date)

	employees, err := s.users.FindEmployees(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TimeRange: timeRange,
		Period:    RangeDisplay(timeRange, start, end),
		Start:     start,
		End:       end,
		Employees: []EmployeeReport{},
	}
	if len(employees) == 0 {
		return report, nil
	}

	tasks, err := s.tasks.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}
	attendanceRows, err := s.attendance.TotalsByUser(ctx, start, end, ids)
	if err != nil {
		return nil, err
	}

	report.Employees = buildEmployeeReports(employees, tasks, attendanceRows)
	report.Summary = buildSummary(report.Employees)
	return report, nil
}

// buildEmployeeReports is the pure merge of roster, tasks and attendance.
// A task pinned to an employee counts for them alone; a department-targeted
// task counts for every employee carrying that sub-role.
func buildEmployeeReports(employees []user.User, tasks []task.Task, attendanceRows []attendance.UserTotalsRow) []EmployeeReport {
	attByUser := make(map[uuid.UUID]attendance.UserTotalsRow, len(attendanceRows))
	for _, row := range attendanceRows {
		attByUser[row.UserID] = row
	}

	reports := make([]EmployeeReport, 0, len(employees))
	for _, emp := range employees {
		row := EmployeeReport{
			UserID:  emp.ID,
			Name:    emp.Name,
			Email:   emp.Email,
			SubRole: emp.SubRole,
		}

		for _, t := range tasks {
			if !taskCountsFor(t, emp) {
				continue
			}
			row.Tasks.Total++
			switch t.Status {
			case task.StatusCompleted:
				row.Tasks.Completed++
			case task.StatusInProgress:
				row.Tasks.InProgress++
			case task.StatusOnHold:
				row.Tasks.OnHold++
			default:
				row.Tasks.Pending++
			}
		}

		if att, ok := attByUser[emp.ID]; ok {
			row.Attendance.TotalHoursWorked = formatHours(att.TotalDuration)
			row.Attendance.AttendanceDays = att.AttendanceDays
		}
		reports = append(reports, row)
	}
	return reports
}

func taskCountsFor(t task.Task, emp user.User) bool {
	if t.AssignedUser != nil {
		return *t.AssignedUser == emp.ID
	}
	return emp.SubRole != nil && *emp.SubRole == t.AssignedSubRole
}

func buildSummary(reports []EmployeeReport) Summary {
	var summary Summary
	summary.TotalEmployees = len(reports)
	for _, row := range reports {
		summary.TotalTasks += row.Tasks.Total
		summary.CompletedTasks += row.Tasks.Completed
		summary.TotalHoursWorked += row.Attendance.TotalHoursWorked
	}
	summary.TotalHoursWorked = round2(summary.TotalHoursWorked)
	return summary
}

func (s *service) Comprehensive(ctx context.Context, timeRange TimeRange, date time.Time, employeeID *uuid.UUID) (*ComprehensiveReport, error) {
	start, end := ResolveRange(timeRange, date)

	employees, err := s.users.FindEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID != nil {
		filtered := employees[:0]
		for _, emp := range employees {
			if emp.ID == *employeeID {
				filtered = append(filtered, emp)
			}
		}
		employees = filtered
	}

	report := &ComprehensiveReport{
		TimeRange: timeRange,
		Period:    RangeDisplay(timeRange, start, end),
		Start:     start,
		End:       end,
		Employees: []ComprehensiveEmployee{},
		Lists:     []ListBreakdownRow{},
	}
	if len(employees) == 0 {
		return report, nil
	}

	tasks, err := s.tasks.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}
	attendanceRows, err := s.attendance.TotalsByUser(ctx, start, end, ids)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.FindCardsWithList(ctx, start, end, employeeID)
	if err != nil {
		return nil, err
	}

	base := buildEmployeeReports(employees, tasks, attendanceRows)
	report.Employees = mergeCardStats(base, cards)
	report.Lists = buildListBreakdown(cards)
	report.Summary = buildComprehensiveSummary(report.Employees)
	return report, nil
}

func mergeCardStats(base []EmployeeReport, cards []kanban.CardWithList) []ComprehensiveEmployee {
	out := make([]ComprehensiveEmployee, 0, len(base))
	for _, row := range base {
		extended := ComprehensiveEmployee{EmployeeReport: row}
		var mine []kanban.CardWithList
		for _, card := range cards {
			if card.AssignedTo == nil || *card.AssignedTo != row.UserID {
				continue
			}
			mine = append(mine, card)
			extended.Cards.Total++
			extended.Cards.TotalMinutes += card.TotalMinutes
			switch card.Status {
			case kanban.CardStatusCompleted:
				extended.Cards.Completed++
			case kanban.CardStatusInProgress:
				extended.Cards.InProgress++
			case kanban.CardStatusOnHold:
				extended.Cards.OnHold++
			default:
				extended.Cards.Pending++
			}
		}
		extended.Cards.TotalHours = round2(float64(extended.Cards.TotalMinutes) / 60)
		extended.Boards = buildListBreakdown(mine)
		extended.TimeTracking = TimeTracking{
			CardMinutes:          extended.Cards.TotalMinutes,
			CardHours:            extended.Cards.TotalMinutes / 60,
			CardRemainingMinutes: extended.Cards.TotalMinutes % 60,
			AttendanceHours:      row.Attendance.TotalHoursWorked,
			AttendanceDays:       row.Attendance.AttendanceDays,
		}
		out = append(out, extended)
	}
	return out
}

func buildListBreakdown(cards []kanban.CardWithList) []ListBreakdownRow {
	byList := make(map[uuid.UUID]*ListBreakdownRow)
	order := []uuid.UUID{}
	for _, card := range cards {
		row, ok := byList[card.ListID]
		if !ok {
			row = &ListBreakdownRow{ListID: card.ListID, ListTitle: card.ListTitle}
			byList[card.ListID] = row
			order = append(order, card.ListID)
		}
		row.TotalCards++
		row.TotalMinutes += card.TotalMinutes
		if card.Status == kanban.CardStatusCompleted {
			row.Completed++
		}
	}

	out := make([]ListBreakdownRow, 0, len(order))
	for _, id := range order {
		out = append(out, *byList[id])
	}
	return out
}

func buildComprehensiveSummary(rows []ComprehensiveEmployee) ComprehensiveSummary {
	var summary ComprehensiveSummary
	summary.TotalEmployees = len(rows)
	var trackedMinutes int64
	for _, row := range rows {
		summary.TotalTasks += row.Tasks.Total
		summary.CompletedTasks += row.Tasks.Completed
		summary.TotalHoursWorked += row.Attendance.TotalHoursWorked
		summary.TotalCards += row.Cards.Total
		summary.CompletedCards += row.Cards.Completed
		trackedMinutes += row.Cards.TotalMinutes
	}
	summary.TotalHoursWorked = round2(summary.TotalHoursWorked)
	summary.TotalTrackedHours = round2(float64(trackedMinutes) / 60)
	return summary
}

func (s *service) PDF(ctx context.Context, timeRange TimeRange, date time.Time) ([]byte, error) {
	report, err := s.All(ctx, timeRange, date)
	if err != nil {
		return nil, err
	}
	if len(report.Employees) == 0 {
		return nil, ErrNoEmployees
	}
	return renderReportPDF(report)
}

func (s *service) ComprehensivePDF(ctx context.Context, timeRange TimeRange, date time.Time, employeeID *uuid.UUID) ([]byte, error) {
	report, err := s.Comprehensive(ctx, timeRange, date, employeeID)
	if err != nil {
		return nil, err
	}
	if len(report.Employees) == 0 {
		return nil, ErrNoEmployees
	}
	return renderComprehensivePDF(report)
}

// formatHours converts seconds to hours rounded to two decimals.
func formatHours(seconds int64) float64 {
	return round2(float64(seconds) / 3600)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
