package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"evdash/backend/libs/logging"
	app "evdash/backend/services/stations-api/internal/app"
	"evdash/backend/services/stations-api/internal/config"
	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/service"
)

func main() {
	adminUser := flag.String("admin-user", "admin", "admin username")
	adminPass := flag.String("admin-password", "admin123", "admin password")
	resetAdmin := flag.Bool("reset-admin", false, "reset the admin password if the user exists")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg.Database.ApplySchema = true

	logger, err := logging.NewLogger("stations-seed")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	sqlDB, err := app.OpenDB(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	svcs := app.NewServices(cfg, sqlDB, logger)
	if err := seedAdmin(ctx, svcs.Auth, *adminUser, *adminPass, *resetAdmin, logger); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}
	if err := seedStations(ctx, svcs.Stations, logger); err != nil {
		logger.Fatal("failed to seed stations", zap.Error(err))
	}

	stats, err := svcs.Stations.Stats(ctx)
	if err != nil {
		logger.Fatal("failed to read stats", zap.Error(err))
	}
	logger.Info("database seeded",
		zap.Int("stations", stats.TotalStations),
		zap.Int("operational", stats.StatusDistribution[models.StatusOperational]),
		zap.Int("maintenance", stats.StatusDistribution[models.StatusMaintenance]),
		zap.Int("inactive", stats.StatusDistribution[models.StatusInactive]),
	)
}

func seedAdmin(ctx context.Context, auth *service.AuthService, username, pass string, reset bool, logger *zap.Logger) error {
	if reset {
		_, err := auth.EnsureUser(ctx, username, pass, models.RoleAdmin)
		return err
	}
	_, err := auth.Register(ctx, username, pass, models.RoleAdmin)
	if errors.Is(err, service.ErrUsernameTaken) {
		logger.Info("admin user already exists", zap.String("username", username))
		return nil
	}
	return err
}

func seedStations(ctx context.Context, stations *service.StationService, logger *zap.Logger) error {
	stats, err := stations.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.TotalStations > 0 {
		logger.Info("stations already present", zap.Int("count", stats.TotalStations))
		return nil
	}
	for _, s := range sampleStations {
		if _, err := stations.Create(ctx, s.input()); err != nil {
			return err
		}
	}
	logger.Info("sample stations created", zap.Int("count", len(sampleStations)))
	return nil
}
