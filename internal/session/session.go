package session

import (
	"sync"
	"time"

	"github.com/stencilworks/stencil/internal/extract"
)

// Session holds one in-progress template import: the source text plus the
// selections marked so far. The mutex serializes Add/Remove/Compile for the
// single-writer discipline each session expects; distinct sessions share no
// state.
type Session struct {
	mu sync.Mutex

	ID      string
	Title   string
	Content string

	store     *extract.Store
	createdAt time.Time
	updatedAt time.Time
}

// AddSelection records a new pending selection.
func (s *Session) AddSelection(text, categoryID, bankID, bankName string, isNewBank bool) (extract.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, err := s.store.Add(text, categoryID, bankID, bankName, isNewBank)
	if err != nil {
		return extract.Selection{}, err
	}
	s.updatedAt = time.Now()
	return sel, nil
}

// RemoveSelection drops a pending selection. Unknown ids are a no-op.
func (s *Session) RemoveSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Remove(id)
	s.updatedAt = time.Now()
}

// Reset clears all pending selections, keeping the session and its content.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
	s.updatedAt = time.Now()
}

// Selections returns the current selections in insertion order.
func (s *Session) Selections() []extract.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Highlight projects the session into renderable segments.
func (s *Session) Highlight() []extract.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return extract.Highlight(s.Content, s.store.List())
}

// Compile consumes the session's selections and produces the final template
// artifact. The caller is expected to discard the session afterwards.
func (s *Session) Compile() extract.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return extract.Compile(s.Content, s.store.List())
}

// UpdatedAt reports the last mutation time, used for TTL eviction.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID         string              `json:"session_id"`
	Title      string              `json:"title,omitempty"`
	Content    string              `json:"content"`
	Selections []extract.Selection `json:"selections"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.ID,
		Title:      s.Title,
		Content:    s.Content,
		Selections: s.store.List(),
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}
