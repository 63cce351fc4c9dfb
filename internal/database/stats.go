package database

import (
	"context"
	"time"

	"github.com/Aidin1998/usertodos/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CollectPoolStats publishes pool gauges every interval until ctx is done.
func CollectPoolStats(ctx context.Context, db *gorm.DB, logger *zap.Logger, interval time.Duration) {
	name := db.Dialector.Name()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := RecordPoolStats(db, name); err != nil {
				logger.Warn("Pool stats unavailable", zap.Error(err))
			}
		}
	}
}

// RecordPoolStats publishes the current pool gauges once.
func RecordPoolStats(db *gorm.DB, name string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	stats := sqlDB.Stats()
	metrics.DBOpenConns.WithLabelValues(name).Set(float64(stats.OpenConnections))
	metrics.DBIdleConns.WithLabelValues(name).Set(float64(stats.Idle))
	metrics.DBInUseConns.WithLabelValues(name).Set(float64(stats.InUse))
	return nil
}
