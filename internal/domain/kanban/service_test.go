package kanban

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysovo-official/clockify-backend/internal/domain/activity"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
)

type recordingActivity struct {
	events []activity.Event
}

func (r *recordingActivity) Record(_ context.Context, event activity.Event) {
	r.events = append(r.events, event)
}

func (r *recordingActivity) List(context.Context, uuid.UUID, user.Role, activity.Filter) ([]activity.Record, int64, error) {
	return nil, 0, nil
}

func (r *recordingActivity) Recent(context.Context, uuid.UUID, user.Role) ([]activity.Record, error) {
	return nil, nil
}

func (r *recordingActivity) StatsByEmployee(context.Context, string) ([]activity.EmployeeStats, error) {
	return nil, nil
}

func (r *recordingActivity) Purge(context.Context, int) (int64, error) {
	return 0, nil
}

type fakeRepo struct {
	boards  map[uuid.UUID]*Board
	lists   map[uuid.UUID]*List
	cards   map[uuid.UUID]*Card
	entries map[uuid.UUID]*TimeEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		boards:  make(map[uuid.UUID]*Board),
		lists:   make(map[uuid.UUID]*List),
		cards:   make(map[uuid.UUID]*Card),
		entries: make(map[uuid.UUID]*TimeEntry),
	}
}

func (f *fakeRepo) CreateBoard(_ context.Context, b *Board) error {
	b.ID = uuid.New()
	copied := *b
	f.boards[b.ID] = &copied
	return nil
}

func (f *fakeRepo) FindBoardByID(_ context.Context, id uuid.UUID) (*Board, error) {
	if b, ok := f.boards[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, ErrBoardNotFound
}

func (f *fakeRepo) FindAllBoards(_ context.Context) ([]Board, error) {
	var out []Board
	for _, b := range f.boards {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) FindVisibleBoards(_ context.Context, userID uuid.UUID) ([]Board, error) {
	var out []Board
	for _, b := range f.boards {
		if b.CreatedBy == userID || b.Members.Contains(userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateBoard(_ context.Context, b *Board) error {
	if _, ok := f.boards[b.ID]; !ok {
		return ErrBoardNotFound
	}
	copied := *b
	f.boards[b.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteBoard(_ context.Context, id uuid.UUID) error {
	if _, ok := f.boards[id]; !ok {
		return ErrBoardNotFound
	}
	delete(f.boards, id)
	return nil
}

func (f *fakeRepo) CreateList(_ context.Context, l *List) error {
	l.ID = uuid.New()
	copied := *l
	f.lists[l.ID] = &copied
	return nil
}

func (f *fakeRepo) FindListByID(_ context.Context, id uuid.UUID) (*List, error) {
	if l, ok := f.lists[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, ErrListNotFound
}

func (f *fakeRepo) FindListsByBoard(_ context.Context, boardID uuid.UUID) ([]List, error) {
	var out []List
	for _, l := range f.lists {
		if l.BoardID == boardID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateList(_ context.Context, l *List) error {
	if _, ok := f.lists[l.ID]; !ok {
		return ErrListNotFound
	}
	copied := *l
	f.lists[l.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteList(_ context.Context, id uuid.UUID) error {
	if _, ok := f.lists[id]; !ok {
		return ErrListNotFound
	}
	delete(f.lists, id)
	return nil
}

func (f *fakeRepo) CreateCard(_ context.Context, c *Card) error {
	c.ID = uuid.New()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	copied := *c
	f.cards[c.ID] = &copied
	return nil
}

func (f *fakeRepo) FindCardByID(_ context.Context, id uuid.UUID) (*Card, error) {
	if c, ok := f.cards[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, ErrCardNotFound
}

func (f *fakeRepo) FindCardsByList(_ context.Context, listID uuid.UUID) ([]Card, error) {
	var out []Card
	for _, c := range f.cards {
		if c.ListID == listID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindUnacknowledgedBefore(_ context.Context, userID uuid.UUID, cutoff time.Time) ([]Card, error) {
	var out []Card
	for _, c := range f.cards {
		if c.AssignedTo != nil && *c.AssignedTo == userID &&
			c.Status != CardStatusCompleted &&
			c.CreatedAt.Before(cutoff) &&
			!c.AcknowledgedByEmployee {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) AcknowledgeOwned(_ context.Context, userID uuid.UUID, ids []uuid.UUID, carriedFrom time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		c, ok := f.cards[id]
		if !ok || c.AssignedTo == nil || *c.AssignedTo != userID {
			continue
		}
		c.AcknowledgedByEmployee = true
		c.IsCarriedOver = true
		c.CarriedFromDate = &carriedFrom
		count++
	}
	return count, nil
}

func (f *fakeRepo) FindCardsWithList(_ context.Context, start, end time.Time, assignee *uuid.UUID) ([]CardWithList, error) {
	var out []CardWithList
	for _, c := range f.cards {
		if c.CreatedAt.Before(start) || c.CreatedAt.After(end) {
			continue
		}
		if assignee != nil && (c.AssignedTo == nil || *c.AssignedTo != *assignee) {
			continue
		}
		title := ""
		if l, ok := f.lists[c.ListID]; ok {
			title = l.Title
		}
		out = append(out, CardWithList{Card: *c, ListTitle: title})
	}
	return out, nil
}

func (f *fakeRepo) UpdateCard(_ context.Context, c *Card) error {
	if _, ok := f.cards[c.ID]; !ok {
		return ErrCardNotFound
	}
	copied := *c
	f.cards[c.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteCard(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeRepo) CreateTimeEntry(_ context.Context, e *TimeEntry) error {
	e.ID = uuid.New()
	copied := *e
	f.entries[e.ID] = &copied
	return nil
}

func (f *fakeRepo) FindOpenTimeEntry(_ context.Context, cardID uuid.UUID) (*TimeEntry, error) {
	for _, e := range f.entries {
		if e.CardID == cardID && e.EndTime == nil {
			copied := *e
			return &copied, nil
		}
	}
	return nil, ErrEntryNotFound
}

func (f *fakeRepo) FindTimeEntriesByCard(_ context.Context, cardID uuid.UUID) ([]TimeEntry, error) {
	var out []TimeEntry
	for _, e := range f.entries {
		if e.CardID == cardID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateTimeEntry(_ context.Context, e *TimeEntry) error {
	if _, ok := f.entries[e.ID]; !ok {
		return ErrEntryNotFound
	}
	copied := *e
	f.entries[e.ID] = &copied
	return nil
}

func newTestService(repo Repository, log *recordingActivity, now time.Time) *service {
	return &service{repo: repo, activities: log, now: func() time.Time { return now }}
}

func setupBoard(t *testing.T, svc Service, creator uuid.UUID) (*Board, *List) {
	t.Helper()
	board, err := svc.CreateBoard(context.Background(), creator, "Sprint 12", "", nil)
	require.NoError(t, err)
	list, err := svc.CreateList(context.Background(), creator, board.ID, "To Do", 0)
	require.NoError(t, err)
	return board, list
}

func TestBoardVisibility(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingActivity{}, time.Now())

	ceo := uuid.New()
	member := uuid.New()
	outsider := uuid.New()

	board, err := svc.CreateBoard(context.Background(), ceo, "Launch", "", []uuid.UUID{member})
	require.NoError(t, err)

	all, err := svc.ListBoards(context.Background(), ceo, user.RoleCEO)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	visible, err := svc.ListBoards(context.Background(), member, user.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	hidden, err := svc.ListBoards(context.Background(), outsider, user.RoleEmployee)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	// Adding the same member twice is a conflict.
	_, err = svc.AddMember(context.Background(), board.ID, member)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	updated, err := svc.AddMember(context.Background(), board.ID, outsider)
	require.NoError(t, err)
	assert.True(t, updated.Members.Contains(outsider))
}

func TestTimerCycle(t *testing.T) {
	repo := newFakeRepo()
	log := &recordingActivity{}
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, log, start)

	ceo := uuid.New()
	_, list := setupBoard(t, svc, ceo)

	card, err := svc.CreateCard(context.Background(), ceo, CreateCardInput{Title: "Ship it", ListID: list.ID})
	require.NoError(t, err)
	assert.Nil(t, card.StartTime)

	entry, err := svc.StartTimer(context.Background(), card.ID, "morning block")
	require.NoError(t, err)
	assert.Equal(t, start, entry.StartTime)

	// Second start while running is a conflict.
	_, err = svc.StartTimer(context.Background(), card.ID, "")
	assert.ErrorIs(t, err, ErrTimerRunning)

	// 90.4 minutes elapsed rounds to 90.
	stop := newTestService(repo, log, start.Add(90*time.Minute+24*time.Second))
	updated, closed, err := stop.StopTimer(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), closed.DurationMinutes)
	assert.Equal(t, int64(90), updated.TotalMinutes)
	require.NotNil(t, updated.StartTime)
	assert.Equal(t, start, *updated.StartTime)

	_, _, err = stop.StopTimer(context.Background(), card.ID)
	assert.ErrorIs(t, err, ErrTimerNotRunning)

	// Second run accumulates and keeps the original start time.
	again := newTestService(repo, log, start.Add(3*time.Hour))
	_, err = again.StartTimer(context.Background(), card.ID, "")
	require.NoError(t, err)
	final := newTestService(repo, log, start.Add(3*time.Hour+30*time.Minute))
	updated, _, err = final.StopTimer(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), updated.TotalMinutes)
	assert.Equal(t, start, *updated.StartTime)
}

func TestCardPermissions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingActivity{}, time.Now())

	ceo := uuid.New()
	owner := uuid.New()
	other := uuid.New()
	_, list := setupBoard(t, svc, ceo)

	card, err := svc.CreateCard(context.Background(), ceo, CreateCardInput{
		Title: "Locked down", ListID: list.ID, AssignedTo: &owner,
	})
	require.NoError(t, err)

	status := CardStatusInProgress
	_, err = svc.UpdateCard(context.Background(), other, user.RoleEmployee, card.ID, UpdateCardInput{Status: &status})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateCard(context.Background(), owner, user.RoleEmployee, card.ID, UpdateCardInput{Status: &status})
	assert.NoError(t, err)

	_, err = svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{Status: &status})
	assert.NoError(t, err)

	err = svc.DeleteCard(context.Background(), other, user.RoleEmployee, card.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCardStatusWireLiterals(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingActivity{}, time.Now())

	ceo := uuid.New()
	_, list := setupBoard(t, svc, ceo)

	card, err := svc.CreateCard(context.Background(), ceo, CreateCardInput{Title: "Deploy", ListID: list.ID})
	require.NoError(t, err)

	// Statuses arrive as the exact strings clients put on the wire.
	for _, raw := range []string{"Pending", "In Progress", "OnHold", "Completed"} {
		status := CardStatus(raw)
		updated, err := svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{Status: &status})
		require.NoError(t, err, raw)
		assert.Equal(t, status, updated.Status)
	}

	for _, raw := range []string{"On Hold", "on hold", "Done"} {
		status := CardStatus(raw)
		_, err := svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{Status: &status})
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestCardUpdateActivityVariants(t *testing.T) {
	repo := newFakeRepo()
	log := &recordingActivity{}
	svc := newTestService(repo, log, time.Now())

	ceo := uuid.New()
	board, list := setupBoard(t, svc, ceo)
	second, err := svc.CreateList(context.Background(), ceo, board.ID, "Done", 1)
	require.NoError(t, err)

	card, err := svc.CreateCard(context.Background(), ceo, CreateCardInput{Title: "Track me", ListID: list.ID})
	require.NoError(t, err)

	status := CardStatusCompleted
	_, err = svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{Status: &status})
	require.NoError(t, err)

	_, err = svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{ListID: &second.ID})
	require.NoError(t, err)

	desc := "notes"
	_, err = svc.UpdateCard(context.Background(), ceo, user.RoleCEO, card.ID, UpdateCardInput{Description: &desc})
	require.NoError(t, err)

	var actions []activity.Action
	for _, e := range log.events {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, activity.ActionChangedCardStatus)
	assert.Contains(t, actions, activity.ActionMovedCard)
	assert.Contains(t, actions, activity.ActionUpdatedCard)

	for _, e := range log.events {
		if e.Action == activity.ActionChangedCardStatus {
			assert.Equal(t, string(CardStatusPending), e.Details.OldStatus)
			assert.Equal(t, string(CardStatusCompleted), e.Details.NewStatus)
		}
		if e.Action == activity.ActionMovedCard {
			require.NotNil(t, e.Details.FromListID)
			require.NotNil(t, e.Details.ToListID)
			assert.Equal(t, list.ID, *e.Details.FromListID)
			assert.Equal(t, second.ID, *e.Details.ToListID)
		}
	}
}

func TestAcknowledgeScopedToOwner(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &recordingActivity{}, now)

	ceo := uuid.New()
	owner := uuid.New()
	other := uuid.New()
	_, list := setupBoard(t, svc, ceo)

	yesterday := now.AddDate(0, 0, -1)
	mine := &Card{Title: "mine", ListID: list.ID, AssignedTo: &owner, Status: CardStatusPending, CreatedAt: yesterday}
	theirs := &Card{Title: "theirs", ListID: list.ID, AssignedTo: &other, Status: CardStatusPending, CreatedAt: yesterday}
	done := &Card{Title: "done", ListID: list.ID, AssignedTo: &owner, Status: CardStatusCompleted, CreatedAt: yesterday}
	require.NoError(t, repo.CreateCard(context.Background(), mine))
	require.NoError(t, repo.CreateCard(context.Background(), theirs))
	require.NoError(t, repo.CreateCard(context.Background(), done))

	pending, err := svc.YesterdayIncomplete(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "mine", pending[0].Title)

	// Foreign ids are skipped, not failed.
	count, err := svc.Acknowledge(context.Background(), owner, []uuid.UUID{mine.ID, theirs.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	acked, err := repo.FindCardByID(context.Background(), mine.ID)
	require.NoError(t, err)
	assert.True(t, acked.AcknowledgedByEmployee)
	assert.True(t, acked.IsCarriedOver)
	require.NotNil(t, acked.CarriedFromDate)

	untouched, err := repo.FindCardByID(context.Background(), theirs.ID)
	require.NoError(t, err)
	assert.False(t, untouched.AcknowledgedByEmployee)

	// Acknowledged cards drop out of the carry-over feed.
	pending, err = svc.YesterdayIncomplete(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmployeeWorkSummary(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 4, 3, 18, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &recordingActivity{}, now)

	ceo := uuid.New()
	emp := uuid.New()
	board, todo := setupBoard(t, svc, ceo)
	done, err := svc.CreateList(context.Background(), ceo, board.ID, "Done", 1)
	require.NoError(t, err)

	cards := []*Card{
		{Title: "a", ListID: todo.ID, AssignedTo: &emp, Status: CardStatusCompleted, TotalMinutes: 60, CreatedAt: now.Add(-time.Hour)},
		{Title: "b", ListID: todo.ID, AssignedTo: &emp, Status: CardStatusInProgress, TotalMinutes: 30, CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "c", ListID: done.ID, AssignedTo: &emp, Status: CardStatusCompleted, TotalMinutes: 45, CreatedAt: now.Add(-3 * time.Hour)},
		{Title: "ignored", ListID: todo.ID, Status: CardStatusPending, CreatedAt: now.Add(-time.Hour)},
	}
	for _, c := range cards {
		require.NoError(t, repo.CreateCard(context.Background(), c))
	}

	summary, err := svc.EmployeeWorkSummary(context.Background(), emp, "daily")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalCards)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 66.67, summary.CompletionRate)
	assert.Equal(t, int64(135), summary.TotalMinutes)
	assert.Equal(t, 2.25, summary.TotalHours)
	assert.Len(t, summary.Lists, 2)

	_, err = svc.EmployeeWorkSummary(context.Background(), emp, "quarterly")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
