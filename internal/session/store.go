package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wonny/rebalancer/pkg/redis"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists session snapshots.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle past the TTL and returns their ids.
	Sweep(ctx context.Context, now time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// MemoryStore keeps sessions in process.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewMemoryStore creates an in-process store with the given idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.Expired(time.Now(), m.ttl) {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, s := range m.sessions {
		if s.Expired(now, m.ttl) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// RedisStore keeps msgpack snapshots in Redis; expiry is left to key TTLs.
type RedisStore struct {
	cache *redis.Cache
	ttl   time.Duration
}

// NewRedisStore creates a store on an enabled redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cache: redis.NewCache(client, "rebalancer:session"),
		ttl:   ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	found, err := r.cache.Get(ctx, id, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	return r.cache.Set(ctx, s.ID, s, r.ttl)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	existed, err := r.cache.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// Sweep is a no-op: redis expires idle snapshots by itself.
func (r *RedisStore) Sweep(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	return r.cache.Count(ctx)
}

// NewStore picks the redis store when the client is enabled, memory otherwise.
func NewStore(client *redis.Client, ttl time.Duration) Store {
	if client != nil && client.Enabled() {
		return NewRedisStore(client, ttl)
	}
	return NewMemoryStore(ttl)
}
