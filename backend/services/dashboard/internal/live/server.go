package live

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades dashboard requests to event websockets.
type Server struct {
	manager      *Manager
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server. The upgrader keeps gorilla's same-origin check.
func NewServer(manager *Manager, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Server{
		manager:      manager,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve upgrades the request for an already authenticated user.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, username string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(uuid.NewString(), username, conn, s.writeTimeout, s.logger, func(id string) {
		s.manager.Remove(id)
		cancel()
		_ = conn.Close()
	})
	s.manager.Add(connection)

	go connection.Start(ctx)
	s.logger.Info("dashboard subscribed to live events", zap.String("username", username), zap.String("conn_id", connection.ID()))
}
