package api

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ssargent/tilemaze/pkg/puzzle"
)

// ErrSessionNotFound is returned for unknown or malformed session ids
var ErrSessionNotFound = errors.New("game session not found")

// Session is one game being played through the API. All access to the
// game goes through Do, so a save and a load never run against the same
// game at once.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	mutex sync.Mutex
	game  *puzzle.Game
}

// Do runs fn with exclusive access to the session's game
func (s *Session) Do(fn func(g *puzzle.Game) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return fn(s.game)
}

// SessionRegistry holds the live sessions keyed by uuid
type SessionRegistry struct {
	mutex    sync.RWMutex
	sessions map[uuid.UUID]*Session
	onChange func(active int)
}

// NewSessionRegistry creates an empty registry. onChange, when set, is
// called with the session count after every create or delete, under the
// registry lock; it must not call back into the registry.
func NewSessionRegistry(onChange func(active int)) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Session),
		onChange: onChange,
	}
}

// Create registers a new session for game
func (r *SessionRegistry) Create(game *puzzle.Game) *Session {
	s := &Session{ID: uuid.New(), Created: time.Now(), game: game}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[s.ID] = s
	r.notify()
	return s
}

// Get looks a session up by the string form of its id
func (r *SessionRegistry) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete drops a session
func (r *SessionRegistry) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.sessions[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, key)
	r.notify()
	return nil
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.sessions)
}

// notify reports the session count; callers hold the write lock so
// reports arrive in the order the changes were made
func (r *SessionRegistry) notify() {
	if r.onChange != nil {
		r.onChange(len(r.sessions))
	}
}
