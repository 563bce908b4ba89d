package session

import "sync"

// Store holds live sessions. Games are not persisted across restarts.
type Store interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string) bool
	// DeleteIf removes every session for which drop returns true and reports
	// how many were removed.
	DeleteIf(drop func(*Session) bool) int
	Len() int
}

type InMemoryStore struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		m: make(map[string]*Session),
	}
}

func (s *InMemoryStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.id] = sess
}

func (s *InMemoryStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	return sess, ok
}

func (s *InMemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	delete(s.m, id)
	return ok
}

func (s *InMemoryStore) DeleteIf(drop func(*Session) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if drop(sess) {
			delete(s.m, id)
			n++
		}
	}
	return n
}

func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
