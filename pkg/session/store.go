package session

import (
	"sync"
	"time"
)

// Store is an in-memory session registry with idle expiry. When full, the
// session closest to expiry is evicted to make room.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewStore creates a store. ttl <= 0 uses DefaultTTL; max <= 0 means no
// limit.
func NewStore(ttl time.Duration, max int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

// TTL returns the idle expiry of the store.
func (st *Store) TTL() time.Duration { return st.ttl }

// Add registers s and starts its idle timer.
func (st *Store) Add(s *Session) {
	now := st.now()
	s.touch(now, st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.max > 0 && len(st.sessions) >= st.max {
		st.cleanupLocked(now)
	}
	if st.max > 0 && len(st.sessions) >= st.max {
		st.evictOldestLocked()
	}
	st.sessions[s.ID] = s
}

// Get returns the session with id and extends its lifetime. An expired
// session is removed and reported as ErrExpired.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := st.now()
	if s.expired(now) {
		st.Delete(id)
		return nil, ErrExpired
	}
	s.touch(now, st.ttl)
	return s, nil
}

// Delete removes a session and reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Cleanup removes expired sessions and returns how many were removed.
func (st *Store) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cleanupLocked(st.now())
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close removes every session.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.Close()
		delete(st.sessions, id)
	}
}

func (st *Store) cleanupLocked(now time.Time) int {
	n := 0
	for id, s := range st.sessions {
		if s.expired(now) {
			s.Close()
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *Store) evictOldestLocked() {
	var oldest *Session
	for _, s := range st.sessions {
		if oldest == nil || s.expiry().Before(oldest.expiry()) {
			oldest = s
		}
	}
	if oldest != nil {
		oldest.Close()
		delete(st.sessions, oldest.ID)
	}
}
