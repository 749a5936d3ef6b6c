// FILE: pkg/session/memory_store.go
// PURPOSE: In-memory session backend on go-cache with TTL eviction.

package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-concierge-be/pkg/query"
)

// MemoryStore keeps sessions in a TTL cache. Inactive sessions are evicted
// by the cache's janitor; every mutation refreshes the TTL.
type MemoryStore struct {
	cache *cache.Cache

	// Per-session locks serialize read-modify-write on a single key while
	// different sessions proceed in parallel.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *MemoryStore) Get(sessionID string) (*State, error) {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()
	return snapshot(s.load(sessionID)), nil
}

func (s *MemoryStore) RecordTurn(sessionID string, turn Turn) error {
	return s.update(sessionID, func(st *State) {
		appendTurn(st, turn)
	})
}

func (s *MemoryStore) SetLastRequestType(sessionID string, rt query.RequestType) error {
	return s.update(sessionID, func(st *State) {
		st.LastRequestType = rt
	})
}

func (s *MemoryStore) SetPinnedLanguage(sessionID string, lang query.Language) error {
	return s.update(sessionID, func(st *State) {
		st.PinnedLanguage = lang
	})
}

func (s *MemoryStore) SetClarification(sessionID string, c *Clarification) error {
	return s.update(sessionID, func(st *State) {
		if c == nil {
			st.Clarification = nil
			return
		}
		cp := *c
		st.Clarification = &cp
	})
}

func (s *MemoryStore) Clear(sessionID string) error {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()
	s.cache.Delete(sessionID)

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) update(sessionID string, fn func(*State)) error {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	st := s.load(sessionID)
	fn(st)
	st.UpdatedAt = time.Now()
	s.cache.Set(sessionID, st, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) load(sessionID string) *State {
	if x, found := s.cache.Get(sessionID); found {
		return x.(*State)
	}
	return newState(sessionID)
}

// snapshot copies the stored state so callers never alias cache-resident
// memory. A later write for the same session mutates the stored state, not
// a previously returned one.
func snapshot(st *State) *State {
	cp := *st
	if len(st.Turns) > 0 {
		cp.Turns = make([]Turn, len(st.Turns))
		copy(cp.Turns, st.Turns)
	}
	if st.Clarification != nil {
		c := *st.Clarification
		cp.Clarification = &c
	}
	return &cp
}
