package session

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/pkg/logger"
)

// Manager serializes edits on top of a Store and fans out every change
// to subscribers of that session.
type Manager struct {
	store   Store
	catalog *assetconfig.Catalog
	logger  *logger.Logger

	mu   sync.Mutex
	subs map[string]map[chan *Session]struct{}
}

// NewManager creates a manager. New sessions start from catalog.
func NewManager(store Store, catalog *assetconfig.Catalog, log *logger.Logger) *Manager {
	return &Manager{
		store:   store,
		catalog: catalog,
		logger:  log,
		subs:    make(map[string]map[chan *Session]struct{}),
	}
}

// Catalog returns the catalog new sessions are created from.
func (m *Manager) Catalog() *assetconfig.Catalog {
	return m.catalog
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Create starts and saves a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := New(m.catalog)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.WithField("session", s.ID).Debug("Session created")
	return s, nil
}

// Get loads a session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Update applies fn to the session and saves it. fn errors abort the save.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	m.publish(s)
	return s, nil
}

// Reset restores the catalog defaults on a session.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	return m.Update(ctx, id, func(s *Session) error {
		s.Reset(m.catalog)
		return nil
	})
}

// Delete removes a session and closes its subscriptions.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.closeSubs(id)
	return nil
}

// closeSubs must be called with mu held.
func (m *Manager) closeSubs(id string) {
	for ch := range m.subs[id] {
		close(ch)
	}
	delete(m.subs, id)
}

// Sweep evicts idle sessions from the store and closes their subscriptions.
func (m *Manager) Sweep(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed, err := m.store.Sweep(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range removed {
		m.closeSubs(id)
	}
	return len(removed), nil
}

// Subscribe returns a channel receiving a copy of the session after every
// update. Slow readers miss intermediate states, never the latest one.
// The returned func cancels the subscription.
func (m *Manager) Subscribe(id string) (<-chan *Session, func()) {
	ch := make(chan *Session, 1)

	m.mu.Lock()
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan *Session]struct{})
	}
	m.subs[id][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subs[id][ch]; ok {
				delete(m.subs[id], ch)
				close(ch)
			}
			if len(m.subs[id]) == 0 {
				delete(m.subs, id)
			}
		})
	}
	return ch, cancel
}

// publish must be called with mu held.
func (m *Manager) publish(s *Session) {
	for ch := range m.subs[s.ID] {
		// drop the stale pending value, keep the newest
		select {
		case <-ch:
		default:
		}
		ch <- s.Clone()
	}
}
