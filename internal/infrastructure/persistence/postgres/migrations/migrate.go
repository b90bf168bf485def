package migrations

import (
	"fmt"
	"time"

	"github.com/sysovo-official/clockify-backend/internal/domain/activity"
	"github.com/sysovo-official/clockify-backend/internal/domain/attendance"
	"github.com/sysovo-official/clockify-backend/internal/domain/kanban"
	"github.com/sysovo-official/clockify-backend/internal/domain/task"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrationRecord tracks the migration history
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null;unique"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *connection.Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	// Enable UUID extension for PostgreSQL
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		logger.Error("Failed to create UUID extension", zap.Error(err))
		return fmt.Errorf("failed to create UUID extension: %v", err)
	}

	// Create migrations table if it doesn't exist
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		logger.Error("Failed to create migrations table", zap.Error(err))
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		// Order matters due to foreign key relationships
		models := []interface{}{
			&user.User{}, // Users first, everything references them
			&attendance.Session{},
			&task.Task{},
			&kanban.Board{},
			&kanban.List{},
			&kanban.Card{},
			&kanban.TimeEntry{},
			&activity.Record{},
		}

		for _, model := range models {
			modelName := fmt.Sprintf("%T", model)

			var record MigrationRecord
			err := tx.Where("name = ?", modelName).First(&record).Error
			alreadyApplied := err == nil

			if err := tx.AutoMigrate(model); err != nil {
				logger.Error("Failed to migrate model",
					zap.String("model", modelName),
					zap.Error(err))
				return fmt.Errorf("failed to migrate %s: %v", modelName, err)
			}

			if !alreadyApplied {
				var lastVersion int
				if err := tx.Model(&MigrationRecord{}).Select("COALESCE(MAX(version), 0)").Scan(&lastVersion).Error; err != nil {
					return fmt.Errorf("failed to get last version: %v", err)
				}

				record = MigrationRecord{
					Name:      modelName,
					Version:   lastVersion + 1,
					AppliedAt: time.Now().UTC(),
				}
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to record migration %s: %v", modelName, err)
				}
				logger.Info("Migrated model", zap.String("model", modelName))
			}
		}

		return nil
	}); err != nil {
		return err
	}

	// Partial unique indexes enforce the single-open-session and
	// single-open-timer invariants at the storage layer, so concurrent
	// punch-ins or timer-starts cannot both slip past the application check.
	invariantIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_open_session
			ON attendance_sessions (user_id) WHERE punch_out_time IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_card_open_time_entry
			ON card_time_entries (card_id) WHERE end_time IS NULL`,
	}

	for _, stmt := range invariantIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			logger.Error("Failed to create invariant index", zap.Error(err))
			return fmt.Errorf("failed to create invariant index: %v", err)
		}
	}

	logger.Info("Database migration completed successfully")
	return nil
}
