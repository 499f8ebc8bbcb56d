// Package admin implements the bot's administrator dialogue: the command
// surface for editing the deny-lists and the per-admin conversational state
// machine that consumes the next message as the phrase payload.
package admin

import "sync"

// State is the dialogue position of one admin. After a command arms an
// Awaiting state, the admin's next plain-text message is the payload.
type State int

const (
	StateIdle State = iota
	StateAwaitingAddTextPhrase
	StateAwaitingRemoveTextPhrase
	StateAwaitingAddImageWord
	StateAwaitingRemoveImageWord
)

// Sessions holds per-admin dialogue state keyed by user ID. State lives in
// memory only: a restart drops pending dialogues and the admin re-issues the
// command. Safe for concurrent use.
type Sessions struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewSessions creates an empty session table.
func NewSessions() *Sessions {
	return &Sessions{states: make(map[int64]State)}
}

// Get returns the user's current state, StateIdle if none.
func (s *Sessions) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

// Set moves the user to the given state.
func (s *Sessions) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == StateIdle {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}

// Reset returns the user to StateIdle and reports whether a dialogue was
// actually in progress.
func (s *Sessions) Reset(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, active := s.states[userID]
	delete(s.states, userID)
	return active
}
