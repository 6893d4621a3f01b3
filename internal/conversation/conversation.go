// Package conversation tracks multi-step prompts such as "name the event, then give its date".
//
// Instead of blocking while a user types, the bot records where each (user, chat)
// pair is in a prompt and advances it when their next message arrives. Every session
// has a deadline; once it passes the session is treated as gone and Sweep hands it
// back so the user can be told the prompt timed out.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/countdown-bot/internal/clock"
)

// Kind identifies which command a session belongs to
type Kind string

const (
	KindAdd    Kind = "add"
	KindDelete Kind = "delete"
)

// State is a step in a session's lifecycle
type State string

const (
	AwaitingName     State = "awaiting_name"
	AwaitingDate     State = "awaiting_date"
	AwaitingPosition State = "awaiting_position"
	Complete         State = "complete"
	Expired          State = "expired"
	Cancelled        State = "cancelled"
)

// Terminal reports whether no further input is accepted in this state
func (s State) Terminal() bool {
	return s == Complete || s == Expired || s == Cancelled
}

// Key identifies a conversation: one user in one chat
type Key struct {
	UserID int64
	ChatID int64
}

// Session is a pending prompt
type Session struct {
	ID        string
	Key       Key
	Kind      Kind
	State     State
	Name      string
	StartedAt time.Time
	ExpiresAt time.Time
}

// Manager holds the open sessions
type Manager struct {
	mu       sync.Mutex
	clock    clock.Clock
	timeout  time.Duration
	sessions map[Key]*Session
}

// NewManager creates a Manager whose sessions expire after timeout without input
func NewManager(c clock.Clock, timeout time.Duration) *Manager {
	return &Manager{
		clock:    c,
		timeout:  timeout,
		sessions: make(map[Key]*Session),
	}
}

// Start opens a session for key, replacing any session already open there.
// Add sessions begin in AwaitingName, delete sessions in AwaitingPosition.
func (m *Manager) Start(key Key, kind Kind) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	state := AwaitingName
	if kind == KindDelete {
		state = AwaitingPosition
	}

	s := &Session{
		ID:        uuid.NewString(),
		Key:       key,
		Kind:      kind,
		State:     state,
		StartedAt: now,
		ExpiresAt: now.Add(m.timeout),
	}
	m.sessions[key] = s
	return *s
}

// Get returns the live session for key. Expired sessions are not returned.
func (m *Manager) Get(key Key) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	if !ok || !m.clock.Now().Before(s.ExpiresAt) {
		return Session{}, false
	}
	return *s, true
}

// SetName records the event name and moves an add session to AwaitingDate
func (m *Manager) SetName(key Key, name string) (Session, bool) {
	return m.advance(key, AwaitingName, func(s *Session) {
		s.Name = name
		s.State = AwaitingDate
	})
}

// Touch re-arms the deadline of a session that stays in its current state,
// e.g. after a rejected date
func (m *Manager) Touch(key Key) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(key)
	if !ok {
		return Session{}, false
	}
	s.ExpiresAt = m.clock.Now().Add(m.timeout)
	return *s, true
}

// Complete closes a session successfully
func (m *Manager) Complete(key Key) (Session, bool) {
	return m.finish(key, Complete)
}

// Cancel closes a session at the user's request
func (m *Manager) Cancel(key Key) (Session, bool) {
	return m.finish(key, Cancelled)
}

// Sweep removes every session whose deadline has passed and returns them
// marked Expired
func (m *Manager) Sweep() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	var expired []Session
	for key, s := range m.sessions {
		if now.Before(s.ExpiresAt) {
			continue
		}
		s.State = Expired
		expired = append(expired, *s)
		delete(m.sessions, key)
	}
	return expired
}

// Len returns the number of sessions held, including expired ones not yet swept
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// advance applies fn if the session is live and in the expected state
func (m *Manager) advance(key Key, from State, fn func(s *Session)) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(key)
	if !ok || s.State != from {
		return Session{}, false
	}
	fn(s)
	s.ExpiresAt = m.clock.Now().Add(m.timeout)
	return *s, true
}

// finish moves a live session to a terminal state and drops it
func (m *Manager) finish(key Key, state State) (Session, bool) {
	if !state.Terminal() {
		return Session{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(key)
	if !ok {
		return Session{}, false
	}
	s.State = state
	delete(m.sessions, key)
	return *s, true
}

// live returns the session for key if it still accepts input and its deadline
// has not passed; caller holds mu
func (m *Manager) live(key Key) (*Session, bool) {
	s, ok := m.sessions[key]
	if !ok || s.State.Terminal() || !m.clock.Now().Before(s.ExpiresAt) {
		return nil, false
	}
	return s, true
}
