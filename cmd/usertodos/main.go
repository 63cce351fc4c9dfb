package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aidin1998/usertodos/api"
	"github.com/Aidin1998/usertodos/internal/config"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/Aidin1998/usertodos/internal/telemetry"
	"github.com/Aidin1998/usertodos/pkg/logger"
	"go.uber.org/zap"
)

const poolStatsInterval = 30 * time.Second

func main() {
	// Load environment variables
	if found, err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("Failed to read .env: %v", err)
	} else if !found {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		zapLogger.Fatal("Failed to set up telemetry", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			zapLogger.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Open(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Tables must exist before the first request is served
	if err := database.Bootstrap(ctx, db, zapLogger); err != nil {
		zapLogger.Fatal("Schema bootstrap failed", zap.Error(err))
	}

	gateway := database.NewGateway(db,
		database.WithLogger(zapLogger),
		database.WithSlowQueryThreshold(cfg.Database.SlowQueryThreshold),
	)

	go database.CollectPoolStats(ctx, db, zapLogger, poolStatsInterval)

	server := api.NewServer(zapLogger, gateway, cfg)
	if err := server.Run(ctx, cfg.Server.Addr(), cfg.Server.ShutdownTimeout); err != nil {
		zapLogger.Error("API server error", zap.Error(err))
		return
	}
	zapLogger.Info("Shutdown complete")
}
