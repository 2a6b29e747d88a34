// pkg/memcache/deleted_dreams.go
package memcache

import (
	"sync"
	"time"

	"oneira/internal/models/db_models"
)

// DeletedDreamStore parks deleted dreams so an "undo" can bring them back
// exactly as they were. Entries are single-use and expire after the undo
// window.
type DeletedDreamStore interface {
	Park(dream db_models.Dream, ttl time.Duration)

	// Take returns the parked dream for id if not expired, and removes it
	// (single-use). Returns nil if missing/expired.
	Take(id string) *db_models.Dream

	// Peek reads without consuming.
	Peek(id string) (*db_models.Dream, bool)
}

type entry struct {
	dream     db_models.Dream
	expiresAt time.Time
}

type DeletedDreams struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewDeletedDreams() *DeletedDreams {
	return &DeletedDreams{
		data: make(map[string]entry),
	}
}

func (s *DeletedDreams) Park(dream db_models.Dream, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[dream.ID.String()] = entry{
		dream:     dream,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *DeletedDreams) Take(id string) *db_models.Dream {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil
	}
	delete(s.data, id)
	if time.Now().After(e.expiresAt) {
		return nil
	}
	d := e.dream
	return &d
}

func (s *DeletedDreams) Peek(id string) (*db_models.Dream, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	d := e.dream
	return &d, true
}
