package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stencilworks/stencil/internal/extract"
)

// Manager is a thread-safe in-memory session registry with TTL eviction.
// Abandoned import sessions are swept by a background ticker.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	gen      extract.IDFunc

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a session manager. A nil gen defaults to random UUIDs;
// it is used for both session and selection ids.
func NewManager(ttl time.Duration, gen extract.IDFunc) *Manager {
	if gen == nil {
		gen = uuid.NewString
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		gen:      gen,
	}
}

// Create opens a new import session over the given content. knownCategory
// validates category ids on AddSelection; nil accepts everything.
func (m *Manager) Create(title, content string, knownCategory func(string) bool) *Session {
	now := time.Now()
	sess := &Session{
		ID:        m.gen(),
		Title:     title,
		Content:   content,
		store:     extract.NewStore(m.gen, knownCategory),
		createdAt: now,
		updatedAt: now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return sess
}

// Get returns a session by id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// Delete discards a session. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Cleanup removes sessions idle past the TTL.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, sess := range m.sessions {
		if now.Sub(sess.UpdatedAt()) > m.ttl {
			delete(m.sessions, id)
		}
	}
}

// Start launches the background eviction ticker.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				m.Cleanup()
			}
		}
	}()
}

// Stop halts the eviction ticker and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}
