package kanban

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrListNotFound  = errors.New("list not found")
	ErrCardNotFound  = errors.New("card not found")
	ErrEntryNotFound = errors.New("time entry not found")
)

// Repository defines the interface for kanban persistence operations
type Repository interface {
	CreateBoard(ctx context.Context, board *Board) error
	FindBoardByID(ctx context.Context, id uuid.UUID) (*Board, error)
	FindAllBoards(ctx context.Context) ([]Board, error)
	FindVisibleBoards(ctx context.Context, userID uuid.UUID) ([]Board, error)
	UpdateBoard(ctx context.Context, board *Board) error
	DeleteBoard(ctx context.Context, id uuid.UUID) error

	CreateList(ctx context.Context, list *List) error
	FindListByID(ctx context.Context, id uuid.UUID) (*List, error)
	FindListsByBoard(ctx context.Context, boardID uuid.UUID) ([]List, error)
	UpdateList(ctx context.Context, list *List) error
	DeleteList(ctx context.Context, id uuid.UUID) error

	CreateCard(ctx context.Context, card *Card) error
	FindCardByID(ctx context.Context, id uuid.UUID) (*Card, error)
	FindCardsByList(ctx context.Context, listID uuid.UUID) ([]Card, error)
	FindUnacknowledgedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]Card, error)
	AcknowledgeOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, carriedFrom time.Time) (int64, error)
	FindCardsWithList(ctx context.Context, start, end time.Time, assignee *uuid.UUID) ([]CardWithList, error)
	UpdateCard(ctx context.Context, card *Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error

	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	FindOpenTimeEntry(ctx context.Context, cardID uuid.UUID) (*TimeEntry, error)
	FindTimeEntriesByCard(ctx context.Context, cardID uuid.UUID) ([]TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBoard(ctx context.Context, board *Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *repository) FindBoardByID(ctx context.Context, id uuid.UUID) (*Board, error) {
	var board Board
	result := r.db.WithContext(ctx).First(&board, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, result.Error
	}
	return &board, nil
}

func (r *repository) FindAllBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// FindVisibleBoards returns boards the user created plus boards whose jsonb
// member array contains them.
func (r *repository) FindVisibleBoards(ctx context.Context, userID uuid.UUID) ([]Board, error) {
	membership := fmt.Sprintf(`["%s"]`, userID)
	var boards []Board
	err := r.db.WithContext(ctx).
		Where("created_by = ? OR members @> ?", userID, membership).
		Order("created_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *repository) UpdateBoard(ctx context.Context, board *Board) error {
	result := r.db.WithContext(ctx).Save(board)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// DeleteBoard removes the board and everything hanging off it.
func (r *repository) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listIDs []uuid.UUID
		if err := tx.Model(&List{}).Where("board_id = ?", id).Pluck("id", &listIDs).Error; err != nil {
			return err
		}
		if len(listIDs) > 0 {
			var cardIDs []uuid.UUID
			if err := tx.Model(&Card{}).Where("list_id IN ?", listIDs).Pluck("id", &cardIDs).Error; err != nil {
				return err
			}
			if len(cardIDs) > 0 {
				if err := tx.Where("card_id IN ?", cardIDs).Delete(&TimeEntry{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", cardIDs).Delete(&Card{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", listIDs).Delete(&List{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Board{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBoardNotFound
		}
		return nil
	})
}

func (r *repository) CreateList(ctx context.Context, list *List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *repository) FindListByID(ctx context.Context, id uuid.UUID) (*List, error) {
	var list List
	result := r.db.WithContext(ctx).First(&list, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, result.Error
	}
	return &list, nil
}

func (r *repository) FindListsByBoard(ctx context.Context, boardID uuid.UUID) ([]List, error) {
	var lists []List
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *repository) UpdateList(ctx context.Context, list *List) error {
	result := r.db.WithContext(ctx).Save(list)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}

func (r *repository) DeleteList(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cardIDs []uuid.UUID
		if err := tx.Model(&Card{}).Where("list_id = ?", id).Pluck("id", &cardIDs).Error; err != nil {
			return err
		}
		if len(cardIDs) > 0 {
			if err := tx.Where("card_id IN ?", cardIDs).Delete(&TimeEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", cardIDs).Delete(&Card{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&List{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrListNotFound
		}
		return nil
	})
}

func (r *repository) CreateCard(ctx context.Context, card *Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *repository) FindCardByID(ctx context.Context, id uuid.UUID) (*Card, error) {
	var card Card
	result := r.db.WithContext(ctx).First(&card, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, result.Error
	}
	return &card, nil
}

func (r *repository) FindCardsByList(ctx context.Context, listID uuid.UUID) ([]Card, error) {
	var cards []Card
	err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("position ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repository) FindUnacknowledgedBefore(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]Card, error) {
	var cards []Card
	err := r.db.WithContext(ctx).
		Where("assigned_to = ? AND status <> ? AND created_at < ? AND acknowledged_by_employee = false",
			userID, CardStatusCompleted, cutoff).
		Order("created_at ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// AcknowledgeOwned marks only the caller's cards; foreign ids in the set are
// silently skipped and excluded from the returned count.
func (r *repository) AcknowledgeOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, carriedFrom time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&Card{}).
		Where("id IN ? AND assigned_to = ?", ids, userID).
		Updates(map[string]interface{}{
			"acknowledged_by_employee": true,
			"is_carried_over":          true,
			"carried_from_date":        carriedFrom,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) FindCardsWithList(ctx context.Context, start, end time.Time, assignee *uuid.UUID) ([]CardWithList, error) {
	query := r.db.WithContext(ctx).
		Table("cards").
		Select("cards.*, board_lists.title AS list_title").
		Joins("JOIN board_lists ON board_lists.id = cards.list_id").
		Where("cards.created_at BETWEEN ? AND ?", start, end)
	if assignee != nil {
		query = query.Where("cards.assigned_to = ?", *assignee)
	}

	var cards []CardWithList
	if err := query.Scan(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repository) UpdateCard(ctx context.Context, card *Card) error {
	result := r.db.WithContext(ctx).Save(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *repository) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", id).Delete(&TimeEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Card{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCardNotFound
		}
		return nil
	})
}

func (r *repository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindOpenTimeEntry(ctx context.Context, cardID uuid.UUID) (*TimeEntry, error) {
	var entry TimeEntry
	result := r.db.WithContext(ctx).
		Where("card_id = ? AND end_time IS NULL", cardID).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

func (r *repository) FindTimeEntriesByCard(ctx context.Context, cardID uuid.UUID) ([]TimeEntry, error) {
	var entries []TimeEntry
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("start_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	result := r.db.WithContext(ctx).Save(entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
