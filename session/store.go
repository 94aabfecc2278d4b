package session

import (
	"sync"
	"time"
)

// Session is the server-side record of a signed-in identity. It is created
// on sign-in, removed on sign-out, and carries just enough identity for the
// guards; the role is resolved separately and never cached here.
type Session struct {
	ID        string
	UserID    string
	Email     string
	CreatedAt time.Time
}

// EventType classifies a session change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is delivered to subscribers on every session change.
type Event struct {
	Type    EventType
	Session Session
}

// Store holds live sessions and fans session-change events out to
// subscribers. Reads are synchronous; a consumer always sees the latest
// known state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	subs     map[int]func(Event)
	nextSub  int
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]Session),
		subs:     make(map[int]func(Event)),
		now:      time.Now,
	}
}

// Add registers a session and notifies subscribers.
func (s *Store) Add(sess Session) {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, Event{Type: EventSignedIn, Session: sess})
}

// Remove deletes a session and notifies subscribers. Removing an unknown id
// is a no-op with no event.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if ok {
		notify(subs, Event{Type: EventSignedOut, Session: sess})
	}
}

// Current returns the session for the given id, if it is still live.
func (s *Store) Current(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Subscribe registers a listener for session changes and returns an
// unsubscribe handle. Callers must invoke the handle when torn down so the
// store never delivers to a dead consumer.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs must be called with the lock held.
func (s *Store) snapshotSubs() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// notify delivers outside the lock so a subscriber may call back into the
// store without deadlocking.
func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
