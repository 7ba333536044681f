package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Persisted keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyRole     = "userRole"
)

// Keys lists every persisted key.
var Keys = []string{KeyToken, KeyUsername, KeyRole}

// Storage persists the session keys between runs or requests.
type Storage interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

// Load returns a copy of the stored values.
func (m *MemoryStorage) Load(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Save merges values into the store.
func (m *MemoryStorage) Save(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// Clear removes every key.
func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
	return nil
}

// MemoryRegistry keeps one set of session values per browser session id. An entry exists only
// between Save and Clear, and expires ttl after its last Save like the redis hash does.
type MemoryRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*registryEntry
}

type registryEntry struct {
	values  map[string]string
	expires time.Time
}

// NewMemoryRegistry returns an empty registry. ttl <= 0 keeps entries until cleared.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{ttl: ttl, now: time.Now, sessions: map[string]*registryEntry{}}
}

// For returns the storage for id. Nothing is allocated until the first Save.
func (r *MemoryRegistry) For(id string) Storage {
	return registryStorage{registry: r, id: id}
}

// Len returns the number of live entries.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	return len(r.sessions)
}

func (r *MemoryRegistry) expired(e *registryEntry) bool {
	return r.ttl > 0 && !r.now().Before(e.expires)
}

// sweep drops expired entries. Callers hold mu.
func (r *MemoryRegistry) sweep() {
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
		}
	}
}

type registryStorage struct {
	registry *MemoryRegistry
	id       string
}

func (s registryStorage) Load(context.Context) (map[string]string, error) {
	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]string{}
	e, ok := r.sessions[s.id]
	if !ok {
		return out, nil
	}
	if r.expired(e) {
		delete(r.sessions, s.id)
		return out, nil
	}
	for k, v := range e.values {
		out[k] = v
	}
	return out, nil
}

func (s registryStorage) Save(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	e, ok := r.sessions[s.id]
	if !ok {
		e = &registryEntry{values: map[string]string{}}
		r.sessions[s.id] = e
	}
	for k, v := range values {
		e.values[k] = v
	}
	e.expires = r.now().Add(r.ttl)
	return nil
}

func (s registryStorage) Clear(context.Context) error {
	r := s.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.id)
	return nil
}

// FileStorage keeps values in a YAML file readable only by the owner.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultFilePath returns the session file under the user's config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "evdash", "session.yaml"), nil
}

// Load reads the file; a missing file yields no values.
func (f *FileStorage) Load(context.Context) (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", f.path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", f.path, err)
	}
	return values, nil
}

// Save merges values into the file.
func (f *FileStorage) Save(ctx context.Context, values map[string]string) error {
	current, err := f.Load(ctx)
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	data, err := yaml.Marshal(current)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

// Clear deletes the file.
func (f *FileStorage) Clear(context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// RedisStorage keeps one hash per browser session. Every write refreshes the TTL.
type RedisStorage struct {
	client redis.Cmdable
	id     string
	ttl    time.Duration
}

// NewRedisStorage returns storage for the browser session id.
func NewRedisStorage(client redis.Cmdable, id string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, id: id, ttl: ttl}
}

func (s *RedisStorage) key() string {
	return fmt.Sprintf("dashboard:session:%s", s.id)
}

// Load returns the hash fields.
func (s *RedisStorage) Load(ctx context.Context) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// Save writes fields and refreshes the expiry.
func (s *RedisStorage) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(), values)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Clear deletes the hash.
func (s *RedisStorage) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}
