package database

import (
	"context"
	"fmt"

	"github.com/Aidin1998/usertodos/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bootstrap creates the users and todos tables when they are absent. It is
// idempotent and must finish before the server accepts requests.
func Bootstrap(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running schema bootstrap")

	// Existing tables are left exactly as found; nothing is altered.
	// users first: todos.user_id references it.
	migrator := db.WithContext(ctx).Migrator()
	for _, model := range []any{&models.User{}, &models.Todo{}} {
		if migrator.HasTable(model) {
			logger.Debug("Table already present", zap.String("model", fmt.Sprintf("%T", model)))
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("failed to bootstrap %T: %w", model, err)
		}
	}

	logger.Info("Schema bootstrap complete")
	return nil
}
