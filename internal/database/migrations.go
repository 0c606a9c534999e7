package database

import (
	"fmt"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/store"
	"gorm.io/gorm"
)

// Migrate creates or updates the documents table.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	log.Info("running database migrations")
	if err := db.AutoMigrate(store.Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations completed")
	return nil
}
