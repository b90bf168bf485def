package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysovo-official/clockify-backend/internal/domain/attendance"
	"github.com/sysovo-official/clockify-backend/internal/domain/kanban"
	"github.com/sysovo-official/clockify-backend/internal/domain/task"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

func employee(name string, subRole *user.SubRole) user.User {
	return user.User{
		ID:      uuid.New(),
		Name:    name,
		Email:   name + "@example.com",
		Role:    user.RoleEmployee,
		SubRole: subRole,
	}
}

func TestBuildEmployeeReportsFanOut(t *testing.T) {
	dev := user.SubRoleDeveloper
	design := user.SubRoleDesigner

	alice := employee("alice", &dev)
	bob := employee("bob", &dev)
	carol := employee("carol", &design)

	tasks := []task.Task{
		// Pinned: counts for alice alone.
		{AssignedUser: &alice.ID, AssignedSubRole: dev, Status: task.StatusCompleted},
		// Department pool: counts for both developers.
		{AssignedSubRole: dev, Status: task.StatusPending},
		// Other department.
		{AssignedSubRole: design, Status: task.StatusInProgress},
	}

	reports := buildEmployeeReports([]user.User{alice, bob, carol}, tasks, nil)
	require.Len(t, reports, 3)

	byName := map[string]EmployeeReport{}
	for _, r := range reports {
		byName[r.Name] = r
	}

	assert.Equal(t, 2, byName["alice"].Tasks.Total)
	assert.Equal(t, 1, byName["alice"].Tasks.Completed)
	assert.Equal(t, 1, byName["alice"].Tasks.Pending)

	assert.Equal(t, 1, byName["bob"].Tasks.Total)
	assert.Equal(t, 1, byName["bob"].Tasks.Pending)

	assert.Equal(t, 1, byName["carol"].Tasks.Total)
	assert.Equal(t, 1, byName["carol"].Tasks.InProgress)
}

func TestBuildEmployeeReportsAttendance(t *testing.T) {
	dev := user.SubRoleDeveloper
	alice := employee("alice", &dev)

	rows := []attendance.UserTotalsRow{
		{UserID: alice.ID, TotalDuration: 27000, AttendanceDays: 2}, // 7.5h
	}

	reports := buildEmployeeReports([]user.User{alice}, nil, rows)
	require.Len(t, reports, 1)
	assert.Equal(t, 7.5, reports[0].Attendance.TotalHoursWorked)
	assert.Equal(t, int64(2), reports[0].Attendance.AttendanceDays)

	summary := buildSummary(reports)
	assert.Equal(t, 1, summary.TotalEmployees)
	assert.Equal(t, 7.5, summary.TotalHoursWorked)
}

func TestBuildEmployeeReportsIsDeterministic(t *testing.T) {
	dev := user.SubRoleDeveloper
	roster := []user.User{employee("alice", &dev), employee("bob", &dev)}
	tasks := []task.Task{{AssignedSubRole: dev, Status: task.StatusPending}}

	first := buildEmployeeReports(roster, tasks, nil)
	second := buildEmployeeReports(roster, tasks, nil)
	assert.Equal(t, first, second)
}

func TestMergeCardStats(t *testing.T) {
	dev := user.SubRoleDeveloper
	alice := employee("alice", &dev)
	base := buildEmployeeReports([]user.User{alice}, nil, nil)

	todoID := uuid.New()
	doneID := uuid.New()
	cards := []kanban.CardWithList{
		{Card: kanban.Card{AssignedTo: &alice.ID, ListID: todoID, Status: kanban.CardStatusCompleted, TotalMinutes: 90}, ListTitle: "To Do"},
		{Card: kanban.Card{AssignedTo: &alice.ID, ListID: todoID, Status: kanban.CardStatusInProgress, TotalMinutes: 30}, ListTitle: "To Do"},
		{Card: kanban.Card{AssignedTo: &alice.ID, ListID: doneID, Status: kanban.CardStatusCompleted, TotalMinutes: 25}, ListTitle: "Done"},
		// Unassigned cards show up in the global breakdown but no employee row.
		{Card: kanban.Card{ListID: todoID, Status: kanban.CardStatusPending}, ListTitle: "To Do"},
	}

	merged := mergeCardStats(base, cards)
	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Cards.Total)
	assert.Equal(t, 2, merged[0].Cards.Completed)
	assert.Equal(t, int64(145), merged[0].Cards.TotalMinutes)
	assert.Equal(t, 2.42, merged[0].Cards.TotalHours)

	// Tracked time splits into whole hours plus the leftover minutes.
	assert.Equal(t, int64(145), merged[0].TimeTracking.CardMinutes)
	assert.Equal(t, int64(2), merged[0].TimeTracking.CardHours)
	assert.Equal(t, int64(25), merged[0].TimeTracking.CardRemainingMinutes)

	// Per-employee breakdown covers only alice's cards, grouped by list.
	require.Len(t, merged[0].Boards, 2)
	assert.Equal(t, "To Do", merged[0].Boards[0].ListTitle)
	assert.Equal(t, 2, merged[0].Boards[0].TotalCards)
	assert.Equal(t, int64(120), merged[0].Boards[0].TotalMinutes)
	assert.Equal(t, "Done", merged[0].Boards[1].ListTitle)
	assert.Equal(t, 1, merged[0].Boards[1].TotalCards)

	breakdown := buildListBreakdown(cards)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "To Do", breakdown[0].ListTitle)
	assert.Equal(t, 3, breakdown[0].TotalCards)
	assert.Equal(t, 1, breakdown[0].Completed)
	assert.Equal(t, int64(120), breakdown[0].TotalMinutes)
}

func TestRenderReportPDF(t *testing.T) {
	dev := user.SubRoleDeveloper
	alice := employee("alice", &dev)

	start, end := ResolveRange(RangeWeekly, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	report := &Report{
		TimeRange: RangeWeekly,
		Period:    RangeDisplay(RangeWeekly, start, end),
		Start:     start,
		End:       end,
		Employees: buildEmployeeReports([]user.User{alice}, []task.Task{
			{AssignedSubRole: dev, Status: task.StatusCompleted},
		}, nil),
	}
	report.Summary = buildSummary(report.Employees)

	data, err := renderReportPDF(report)
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderComprehensivePDF(t *testing.T) {
	dev := user.SubRoleDeveloper
	alice := employee("alice", &dev)
	base := buildEmployeeReports([]user.User{alice}, nil, nil)

	listID := uuid.New()
	cards := []kanban.CardWithList{
		{Card: kanban.Card{AssignedTo: &alice.ID, ListID: listID, Status: kanban.CardStatusCompleted, TotalMinutes: 45}, ListTitle: "Done"},
	}

	report := &ComprehensiveReport{
		TimeRange: RangeDaily,
		Period:    "Jun 11, 2025",
		Employees: mergeCardStats(base, cards),
		Lists:     buildListBreakdown(cards),
	}
	report.Summary = buildComprehensiveSummary(report.Employees)

	data, err := renderComprehensivePDF(report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
