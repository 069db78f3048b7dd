package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
)

// Models lists every table of the store in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Board{},
		&domain.BoardMember{},
		&domain.List{},
		&domain.Card{},
		&domain.Label{},
		&domain.CardLabel{},
		&domain.CardAssignee{},
		&domain.Comment{},
		&domain.Attachment{},
	}
}

// AutoMigrate creates or updates all tables, indexes and foreign keys.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// AutoMigrateWithRetry retries AutoMigrate with a linear backoff.
func AutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = AutoMigrate(db); err == nil {
			logger.Info("Database migrations completed", zap.Int("attempt", attempt))
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
