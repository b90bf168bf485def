package kanban

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/domain/activity"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	ErrNameRequired    = errors.New("board name is required")
	ErrTitleRequired   = errors.New("title is required")
	ErrAlreadyMember   = errors.New("user is already a board member")
	ErrTimerRunning    = errors.New("a timer is already running for this card")
	ErrTimerNotRunning = errors.New("no running timer for this card")
	ErrForbidden       = errors.New("not allowed to modify this card")
	ErrInvalidStatus   = errors.New("invalid card status")
	ErrInvalidPeriod   = errors.New("invalid period")
)

// CreateCardInput carries the fields accepted when creating a card.
type CreateCardInput struct {
	Title       string
	Description string
	ListID      uuid.UUID
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
	Position    int
}

// UpdateCardInput carries optional card updates. Nil fields are untouched.
type UpdateCardInput struct {
	Title       *string
	Description *string
	ListID      *uuid.UUID
	AssignedTo  *uuid.UUID
	ClearAssignee bool
	DueDate     *time.Time
	Position    *int
	Status      *CardStatus
}

// UpdateListInput carries optional list updates.
type UpdateListInput struct {
	Title    *string
	Position *int
}

// ListBreakdown is the per-list slice of a work summary.
type ListBreakdown struct {
	ListID       uuid.UUID `json:"listId"`
	ListTitle    string    `json:"listTitle"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	TotalMinutes int64     `json:"totalMinutes"`
}

// WorkSummary reports an employee's card activity over a period.
type WorkSummary struct {
	Period         string          `json:"period"`
	TotalCards     int             `json:"totalCards"`
	Completed      int             `json:"completed"`
	InProgress     int             `json:"inProgress"`
	OnHold         int             `json:"onHold"`
	Pending        int             `json:"pending"`
	CompletionRate float64         `json:"completionRate"`
	TotalMinutes   int64           `json:"totalMinutes"`
	TotalHours     float64         `json:"totalHours"`
	Lists          []ListBreakdown `json:"lists"`
}

// Service defines kanban business operations.
type Service interface {
	CreateBoard(ctx context.Context, creatorID uuid.UUID, name, description string, members []uuid.UUID) (*Board, error)
	ListBoards(ctx context.Context, callerID uuid.UUID, callerRole user.Role) ([]Board, error)
	AddMember(ctx context.Context, boardID, memberID uuid.UUID) (*Board, error)
	UpdateBoard(ctx context.Context, boardID uuid.UUID, name, description string) (*Board, error)
	DeleteBoard(ctx context.Context, boardID uuid.UUID) error

	CreateList(ctx context.Context, actorID, boardID uuid.UUID, title string, position int) (*List, error)
	ListsByBoard(ctx context.Context, boardID uuid.UUID) ([]List, error)
	UpdateList(ctx context.Context, actorID, listID uuid.UUID, input UpdateListInput) (*List, error)
	DeleteList(ctx context.Context, actorID, listID uuid.UUID) error

	CreateCard(ctx context.Context, actorID uuid.UUID, input CreateCardInput) (*Card, error)
	CardsByList(ctx context.Context, listID uuid.UUID) ([]Card, error)
	UpdateCard(ctx context.Context, actorID uuid.UUID, actorRole user.Role, cardID uuid.UUID, input UpdateCardInput) (*Card, error)
	DeleteCard(ctx context.Context, actorID uuid.UUID, actorRole user.Role, cardID uuid.UUID) error

	StartTimer(ctx context.Context, cardID uuid.UUID, note string) (*TimeEntry, error)
	StopTimer(ctx context.Context, cardID uuid.UUID) (*Card, *TimeEntry, error)

	YesterdayIncomplete(ctx context.Context, userID uuid.UUID) ([]Card, error)
	Acknowledge(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (int64, error)

	EmployeeWorkSummary(ctx context.Context, employeeID uuid.UUID, period string) (*WorkSummary, error)
}

type service struct {
	repo       Repository
	activities activity.Service
	now        func() time.Time
}

func NewService(repo Repository, activities activity.Service) Service {
	return &service{repo: repo, activities: activities, now: time.Now}
}

func (s *service) CreateBoard(ctx context.Context, creatorID uuid.UUID, name, description string, members []uuid.UUID) (*Board, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	board := &Board{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		Members:     UUIDSlice(members),
	}
	if board.Members == nil {
		board.Members = UUIDSlice{}
	}
	if err := s.repo.CreateBoard(ctx, board); err != nil {
		return nil, err
	}

	s.activities.Record(ctx, activity.Event{
		ActorID:    creatorID,
		Action:     activity.ActionCreatedBoard,
		TargetType: activity.TargetBoard,
		TargetID:   board.ID,
		TargetName: board.Name,
		BoardID:    &board.ID,
		BoardName:  board.Name,
	})
	return board, nil
}

func (s *service) ListBoards(ctx context.Context, callerID uuid.UUID, callerRole user.Role) ([]Board, error) {
	if callerRole == user.RoleCEO {
		return s.repo.FindAllBoards(ctx)
	}
	return s.repo.FindVisibleBoards(ctx, callerID)
}

func (s *service) AddMember(ctx context.Context, boardID, memberID uuid.UUID) (*Board, error) {
	board, err := s.repo.FindBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.Members.Contains(memberID) {
		return nil, ErrAlreadyMember
	}

	board.Members = append(board.Members, memberID)
	if err := s.repo.UpdateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *service) UpdateBoard(ctx context.Context, boardID uuid.UUID, name, description string) (*Board, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	board, err := s.repo.FindBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board.Name = name
	board.Description = description
	if err := s.repo.UpdateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *service) DeleteBoard(ctx context.Context, boardID uuid.UUID) error {
	return s.repo.DeleteBoard(ctx, boardID)
}

func (s *service) CreateList(ctx context.Context, actorID, boardID uuid.UUID, title string, position int) (*List, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	board, err := s.repo.FindBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	list := &List{
		Title:    title,
		BoardID:  board.ID,
		Position: position,
	}
	if err := s.repo.CreateList(ctx, list); err != nil {
		return nil, err
	}

	s.activities.Record(ctx, activity.Event{
		ActorID:    actorID,
		Action:     activity.ActionCreatedList,
		TargetType: activity.TargetList,
		TargetID:   list.ID,
		TargetName: list.Title,
		BoardID:    &board.ID,
		BoardName:  board.Name,
	})
	return list, nil
}

func (s *service) ListsByBoard(ctx context.Context, boardID uuid.UUID) ([]List, error) {
	if _, err := s.repo.FindBoardByID(ctx, boardID); err != nil {
		return nil, err
	}
	return s.repo.FindListsByBoard(ctx, boardID)
}

func (s *service) UpdateList(ctx context.Context, actorID, listID uuid.UUID, input UpdateListInput) (*List, error) {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	oldPosition := list.Position
	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		list.Title = *input.Title
	}
	if input.Position != nil {
		list.Position = *input.Position
	}

	if err := s.repo.UpdateList(ctx, list); err != nil {
		return nil, err
	}

	if input.Position != nil && *input.Position != oldPosition {
		board, boardName := s.boardRef(ctx, list.BoardID)
		s.activities.Record(ctx, activity.Event{
			ActorID:    actorID,
			Action:     activity.ActionMovedList,
			TargetType: activity.TargetList,
			TargetID:   list.ID,
			TargetName: list.Title,
			Details: activity.Details{
				FromPosition: &oldPosition,
				ToPosition:   input.Position,
			},
			BoardID:   board,
			BoardName: boardName,
		})
	}
	return list, nil
}

func (s *service) DeleteList(ctx context.Context, actorID, listID uuid.UUID) error {
	list, err := s.repo.FindListByID(ctx, listID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteList(ctx, listID); err != nil {
		return err
	}

	board, boardName := s.boardRef(ctx, list.BoardID)
	s.activities.Record(ctx, activity.Event{
		ActorID:    actorID,
		Action:     activity.ActionDeletedList,
		TargetType: activity.TargetList,
		TargetID:   list.ID,
		TargetName: list.Title,
		BoardID:    board,
		BoardName:  boardName,
	})
	return nil
}

func (s *service) CreateCard(ctx context.Context, actorID uuid.UUID, input CreateCardInput) (*Card, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	list, err := s.repo.FindListByID(ctx, input.ListID)
	if err != nil {
		return nil, err
	}

	card := &Card{
		Title:       input.Title,
		Description: input.Description,
		ListID:      list.ID,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		Position:    input.Position,
		Status:      CardStatusPending,
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, err
	}

	board, boardName := s.boardRef(ctx, list.BoardID)
	s.activities.Record(ctx, activity.Event{
		ActorID:    actorID,
		Action:     activity.ActionCreatedCard,
		TargetType: activity.TargetCard,
		TargetID:   card.ID,
		TargetName: card.Title,
		Details: activity.Details{
			ListID:   &list.ID,
			ListName: list.Title,
		},
		BoardID:   board,
		BoardName: boardName,
	})
	return card, nil
}

func (s *service) CardsByList(ctx context.Context, listID uuid.UUID) ([]Card, error) {
	if _, err := s.repo.FindListByID(ctx, listID); err != nil {
		return nil, err
	}
	return s.repo.FindCardsByList(ctx, listID)
}

// canTouchCard: the CEO always, the assigned employee, or anyone while the
// card is unassigned.
func canTouchCard(card *Card, actorID uuid.UUID, actorRole user.Role) bool {
	if actorRole == user.RoleCEO {
		return true
	}
	if card.AssignedTo == nil {
		return true
	}
	return *card.AssignedTo == actorID
}

func (s *service) UpdateCard(ctx context.Context, actorID uuid.UUID, actorRole user.Role, cardID uuid.UUID, input UpdateCardInput) (*Card, error) {
	card, err := s.repo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !canTouchCard(card, actorID, actorRole) {
		return nil, ErrForbidden
	}

	oldStatus := card.Status
	oldListID := card.ListID

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		card.Title = *input.Title
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		card.Status = *input.Status
	}
	if input.ListID != nil {
		if _, err := s.repo.FindListByID(ctx, *input.ListID); err != nil {
			return nil, err
		}
		card.ListID = *input.ListID
	}
	if input.DueDate != nil {
		card.DueDate = input.DueDate
	}
	if input.Position != nil {
		card.Position = *input.Position
	}
	if input.ClearAssignee {
		card.AssignedTo = nil
	} else if input.AssignedTo != nil {
		card.AssignedTo = input.AssignedTo
	}

	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, err
	}

	s.recordCardUpdate(ctx, actorID, card, oldStatus, oldListID)
	return card, nil
}

// recordCardUpdate picks the most specific action for the change made.
func (s *service) recordCardUpdate(ctx context.Context, actorID uuid.UUID, card *Card, oldStatus CardStatus, oldListID uuid.UUID) {
	list, err := s.repo.FindListByID(ctx, card.ListID)
	var board *uuid.UUID
	var boardName string
	if err == nil {
		board, boardName = s.boardRef(ctx, list.BoardID)
	}

	event := activity.Event{
		ActorID:    actorID,
		Action:     activity.ActionUpdatedCard,
		TargetType: activity.TargetCard,
		TargetID:   card.ID,
		TargetName: card.Title,
		BoardID:    board,
		BoardName:  boardName,
	}
	switch {
	case card.ListID != oldListID:
		event.Action = activity.ActionMovedCard
		from := oldListID
		to := card.ListID
		event.Details = activity.Details{FromListID: &from, ToListID: &to}
	case card.Status != oldStatus:
		event.Action = activity.ActionChangedCardStatus
		event.Details = activity.Details{OldStatus: string(oldStatus), NewStatus: string(card.Status)}
	}
	s.activities.Record(ctx, event)
}

func (s *service) DeleteCard(ctx context.Context, actorID uuid.UUID, actorRole user.Role, cardID uuid.UUID) error {
	card, err := s.repo.FindCardByID(ctx, cardID)
	if err != nil {
		return err
	}
	if !canTouchCard(card, actorID, actorRole) {
		return ErrForbidden
	}

	var board *uuid.UUID
	var boardName string
	if list, err := s.repo.FindListByID(ctx, card.ListID); err == nil {
		board, boardName = s.boardRef(ctx, list.BoardID)
	}

	if err := s.repo.DeleteCard(ctx, cardID); err != nil {
		return err
	}

	s.activities.Record(ctx, activity.Event{
		ActorID:    actorID,
		Action:     activity.ActionDeletedCard,
		TargetType: activity.TargetCard,
		TargetID:   card.ID,
		TargetName: card.Title,
		BoardID:    board,
		BoardName:  boardName,
	})
	return nil
}

func (s *service) StartTimer(ctx context.Context, cardID uuid.UUID, note string) (*TimeEntry, error) {
	card, err := s.repo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindOpenTimeEntry(ctx, cardID); err == nil {
		return nil, ErrTimerRunning
	} else if !errors.Is(err, ErrEntryNotFound) {
		return nil, err
	}

	start := s.now().UTC()
	entry := &TimeEntry{
		CardID:    card.ID,
		StartTime: start,
		Note:      note,
	}
	if err := s.repo.CreateTimeEntry(ctx, entry); err != nil {
		// Lost a race; the partial unique index allows one open entry.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTimerRunning
		}
		return nil, err
	}

	// First run stamps the card's start time for good.
	if card.StartTime == nil {
		card.StartTime = &start
		if err := s.repo.UpdateCard(ctx, card); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (s *service) StopTimer(ctx context.Context, cardID uuid.UUID) (*Card, *TimeEntry, error) {
	card, err := s.repo.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.repo.FindOpenTimeEntry(ctx, cardID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil, ErrTimerNotRunning
		}
		return nil, nil, err
	}

	end := s.now().UTC()
	elapsed := end.Sub(entry.StartTime)
	minutes := int64(math.Round(float64(elapsed.Milliseconds()) / 60000))

	entry.EndTime = &end
	entry.DurationMinutes = minutes
	if err := s.repo.UpdateTimeEntry(ctx, entry); err != nil {
		return nil, nil, err
	}

	card.TotalMinutes += minutes
	card.EndTime = &end
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, nil, err
	}
	return card, entry, nil
}

func (s *service) YesterdayIncomplete(ctx context.Context, userID uuid.UUID) ([]Card, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.FindUnacknowledgedBefore(ctx, userID, midnight)
}

func (s *service) Acknowledge(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (int64, error) {
	return s.repo.AcknowledgeOwned(ctx, userID, cardIDs, s.now().UTC())
}

func (s *service) EmployeeWorkSummary(ctx context.Context, employeeID uuid.UUID, period string) (*WorkSummary, error) {
	now := s.now().UTC()
	var start time.Time
	switch period {
	case "daily":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case "weekly":
		start = now.AddDate(0, 0, -7)
	case "monthly":
		start = now.AddDate(0, 0, -30)
	default:
		return nil, ErrInvalidPeriod
	}

	cards, err := s.repo.FindCardsWithList(ctx, start, now, &employeeID)
	if err != nil {
		return nil, err
	}

	summary := &WorkSummary{Period: period}
	byList := make(map[uuid.UUID]*ListBreakdown)
	order := []uuid.UUID{}
	for _, card := range cards {
		summary.TotalCards++
		summary.TotalMinutes += card.TotalMinutes
		switch card.Status {
		case CardStatusCompleted:
			summary.Completed++
		case CardStatusInProgress:
			summary.InProgress++
		case CardStatusOnHold:
			summary.OnHold++
		default:
			summary.Pending++
		}

		entry, ok := byList[card.ListID]
		if !ok {
			entry = &ListBreakdown{ListID: card.ListID, ListTitle: card.ListTitle}
			byList[card.ListID] = entry
			order = append(order, card.ListID)
		}
		entry.Total++
		entry.TotalMinutes += card.TotalMinutes
		if card.Status == CardStatusCompleted {
			entry.Completed++
		}
	}

	if summary.TotalCards > 0 {
		summary.CompletionRate = math.Round(float64(summary.Completed)/float64(summary.TotalCards)*10000) / 100
	}
	summary.TotalHours = math.Round(float64(summary.TotalMinutes)/60*100) / 100

	summary.Lists = make([]ListBreakdown, 0, len(order))
	for _, id := range order {
		summary.Lists = append(summary.Lists, *byList[id])
	}
	return summary, nil
}

// boardRef resolves a board's id/name for activity context; lookups that fail
// just leave the context empty.
func (s *service) boardRef(ctx context.Context, boardID uuid.UUID) (*uuid.UUID, string) {
	board, err := s.repo.FindBoardByID(ctx, boardID)
	if err != nil {
		return nil, ""
	}
	return &board.ID, board.Name
}
