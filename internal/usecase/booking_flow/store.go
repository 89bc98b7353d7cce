package booking_flow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// session сессия записи. mu защищает flow, confirming - признак записи в процессе
type session struct {
	mu         sync.Mutex
	flow       Flow
	confirming bool
}

// store хранит сессии в памяти процесса и удаляет истекшие
type store struct {
	mu    sync.Mutex
	items map[uuid.UUID]*session
	ttl   time.Duration
}

func newStore(ttl time.Duration) *store {
	return &store{items: make(map[uuid.UUID]*session), ttl: ttl}
}

func (s *store) put(sess *session, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
	s.items[sess.flow.ID] = sess
}

// get возвращает сессию и продлевает ее срок жизни
func (s *store) get(id uuid.UUID, now time.Time) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !now.Before(sess.flow.ExpiresAt) {
		delete(s.items, id)
		return nil, false
	}
	sess.flow.ExpiresAt = now.Add(s.ttl)
	return sess, true
}

func (s *store) delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *store) sweepLocked(now time.Time) {
	for id, sess := range s.items {
		sess.mu.Lock()
		expired := !now.Before(sess.flow.ExpiresAt)
		sess.mu.Unlock()
		if expired {
			delete(s.items, id)
		}
	}
}
