package live

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/shell"
)

// Manager tracks open dashboard connections and fans events out to them.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *zap.Logger
}

// NewManager builds connection manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// Add registers new connection.
func (m *Manager) Add(conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn.ID()] = conn
}

// Remove removes connection.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, id)
}

// Count returns the number of open connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Broadcast queues msg on every connection.
func (m *Manager) Broadcast(msg []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conn := range m.connections {
		conn.Send(msg)
	}
}

// Publish forwards station changes to every open dashboard. Other event types stay local to
// the shell that raised them.
func (m *Manager) Publish(e shell.Event) {
	if e.Type != shell.EventStationSaved && e.Type != shell.EventStationDeleted {
		return
	}
	msg, err := json.Marshal(e)
	if err != nil {
		m.logger.Error("failed to encode live event", zap.Error(err))
		return
	}
	m.Broadcast(msg)
}

// CloseAll drops every open connection. Their read pumps exit and deregister them.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	conns := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}
