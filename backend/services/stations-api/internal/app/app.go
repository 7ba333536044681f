package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	libdb "evdash/backend/libs/db"
	"evdash/backend/libs/httpx"
	appconfig "evdash/backend/services/stations-api/internal/config"
	"evdash/backend/services/stations-api/internal/db"
	httpserver "evdash/backend/services/stations-api/internal/http"
	"evdash/backend/services/stations-api/internal/http/handlers"
	"evdash/backend/services/stations-api/internal/http/middleware"
	"evdash/backend/services/stations-api/internal/password"
	"evdash/backend/services/stations-api/internal/repository"
	"evdash/backend/services/stations-api/internal/service"
)

// Services groups the domain services so the seed command can reuse them.
type Services struct {
	Auth     *service.AuthService
	Stations *service.StationService
}

// NewServices builds repositories and services over an open database.
func NewServices(cfg *appconfig.Config, sqlDB *sql.DB, logger *zap.Logger) *Services {
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	return &Services{
		Auth: service.NewAuthService(
			repository.NewUserRepository(sqlDB),
			password.NewBcryptHasher(cfg.BcryptCost),
			tokenSvc,
			logger,
		),
		Stations: service.NewStationService(
			repository.NewStationRepository(sqlDB),
			service.Pagination{
				DefaultPerPage: cfg.Pagination.DefaultPerPage,
				MaxPerPage:     cfg.Pagination.MaxPerPage,
			},
			logger,
		),
	}
}

// OpenDB connects to Postgres and applies the schema when configured to.
func OpenDB(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*sql.DB, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Database.ApplySchema {
		if err := db.Migrate(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		logger.Info("database schema applied")
	}
	return sqlDB, nil
}

// App wires dependencies for the stations API.
type App struct {
	server *httpx.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	svcs := NewServices(cfg, sqlDB, logger)
	router := httpserver.NewRouter(httpserver.Routes{
		Auth:     handlers.NewAuthHandler(svcs.Auth, cfg.HTTP.MaxRequestBytes, logger),
		Stations: handlers.NewStationsHandler(svcs.Stations, cfg.HTTP.MaxRequestBytes, logger),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return libdb.Ping(ctx, sqlDB)
		}),
		RequireAdmin: middleware.RequireAdmin(svcs.Auth, logger),
	})

	server := httpx.NewServer(cfg.HTTPAddress(), router, logger,
		httpx.RequestIDMiddleware(),
		httpx.RecoveryMiddleware(logger),
		httpx.LoggingMiddleware(logger),
	)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
