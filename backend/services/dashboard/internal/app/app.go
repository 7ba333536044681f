package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	libredis "evdash/backend/libs/redis"
	"evdash/backend/services/dashboard/internal/clients"
	appconfig "evdash/backend/services/dashboard/internal/config"
	"evdash/backend/services/dashboard/internal/live"
	"evdash/backend/services/dashboard/internal/session"
	"evdash/backend/services/dashboard/internal/web"
)

// App wires dependencies for the web dashboard.
type App struct {
	server *httpx.Server
	live   *live.Manager
	redis  *goredis.Client
	logger *zap.Logger
}

// NewStorageFactory picks the per-browser session backend. The redis client is nil for the
// memory backend.
func NewStorageFactory(cfg *appconfig.Config) (web.StorageFactory, *goredis.Client, error) {
	switch cfg.Session.Store {
	case appconfig.SessionStoreRedis:
		client, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect session redis: %w", err)
		}
		ttl := cfg.Session.TTL
		return func(id string) session.Storage {
			return session.NewRedisStorage(client, id, ttl)
		}, client, nil
	default:
		registry := session.NewMemoryRegistry(cfg.Session.TTL)
		return registry.For, nil, nil
	}
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	storage, redisClient, err := NewStorageFactory(cfg)
	if err != nil {
		return nil, err
	}

	manager := live.NewManager(logger.Named("live"))
	handler, err := web.NewHandler(web.Options{
		API: clients.New(cfg.API.BaseURL, clients.NewDefaultHTTPClient(cfg.API.Timeout)),
		Cookies: session.NewCookies([]byte(cfg.Session.CookieSecret), session.CookieOptions{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.CookieMaxAge(),
			Secure: cfg.Session.CookieSecure,
		}),
		Storage:       storage,
		Live:          manager,
		LiveServer:    live.NewServer(manager, 0, logger.Named("live")),
		ToastInterval: cfg.Toast.Interval,
		ToastLifetime: cfg.Toast.Lifetime,
		Logger:        logger,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("build web handler: %w", err)
	}

	server := httpx.NewServer(cfg.HTTPAddress(), handler.Routes(), logger,
		httpx.RequestIDMiddleware(),
		httpx.RecoveryMiddleware(logger),
		httpx.LoggingMiddleware(logger),
	)

	logger.Info("dashboard configured",
		zap.String("api_url", cfg.API.BaseURL),
		zap.String("session_store", cfg.Session.Store),
	)

	return &App{
		server: server,
		live:   manager,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	a.live.CloseAll()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
