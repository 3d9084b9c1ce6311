// Package session holds per-user session snapshots. A snapshot is written at
// login and is never synchronized with the authoritative store implicitly:
// every mutation path re-fetches the user record and re-saves it here
// explicitly. The store also caches the last leaderboard roster computed for
// a session, refreshed after game-completion signals.
package session

import (
	"sync"
	"time"

	"classquest/internal/models"
)

// Session is a single current-user snapshot plus its cached class roster.
type Session struct {
	User    *models.User
	Roster  []models.LeaderboardRow
	SavedAt time.Time
}

// Store keeps sessions keyed by user ID, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Save writes a fresh snapshot for the user, keeping any cached roster.
func (store *Store) Save(userID string, user *models.User) {
	store.mu.Lock()
	defer store.mu.Unlock()

	current := store.sessions[userID]
	next := &Session{User: user, SavedAt: time.Now()}
	if current != nil {
		next.Roster = current.Roster
	}
	store.sessions[userID] = next
}

// Get returns the cached session for the user, or nil when no session
// exists. The snapshot is returned as-is; it is not re-validated against
// the authoritative store.
func (store *Store) Get(userID string) *Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.sessions[userID]
}

// Delete removes the user's session. Deleting a missing session is a no-op.
func (store *Store) Delete(userID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, userID)
}

// SaveRoster caches a leaderboard roster on the user's session. It does
// nothing when the session has already been destroyed.
func (store *Store) SaveRoster(userID string, roster []models.LeaderboardRow) {
	store.mu.Lock()
	defer store.mu.Unlock()

	current, ok := store.sessions[userID]
	if !ok {
		return
	}
	current.Roster = roster
}
