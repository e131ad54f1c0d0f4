package session

import (
	"context"
	"sync"
	"time"

	"github.com/prepvoice/backend/internal/models"
)

const janitorInterval = time.Minute

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// MemoryStore is an in-process store with a sliding idle TTL. A janitor
// goroutine sweeps expired entries so abandoned sessions do not leak.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*memoryEntry
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a memory store evicting sessions idle for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *MemoryStore) entryTTL(sess *models.Session) time.Duration {
	if sess.Completed() {
		return completedGrace
	}
	return s.ttl
}

// Create inserts a new session.
func (s *MemoryStore) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = &memoryEntry{session: sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Get returns the session or ErrNotFound, lazily dropping expired entries.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	e.expiresAt = time.Now().Add(s.entryTTL(e.session))
	return e.session, nil
}

// Mutate applies fn to the stored session under the store lock.
func (s *MemoryStore) Mutate(_ context.Context, id string, fn func(*models.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, id)
		return ErrNotFound
	}
	if err := fn(e.session); err != nil {
		return err
	}
	e.expiresAt = time.Now().Add(s.entryTTL(e.session))
	return nil
}

// Delete removes the session; unknown ids are a no-op.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
