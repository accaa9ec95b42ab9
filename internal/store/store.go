// Package store persists per-user curation state: profiles, shown-article
// keys, the last delivered article list, and conversation context. Two
// drivers share one interface so the server can run fully in memory or on
// SQLite.
package store

import (
	"fmt"
	"sync"
	"time"

	"pulsebot/internal/core"
)

// UserState is the per-user keyed read/write contract the curation core runs
// against. Mutators do not return errors: a failed write in the SQLite driver
// is logged and degrades to stale state rather than surfacing to the user.
type UserState interface {
	// Profile returns the user's profile, if one has been derived.
	Profile(userID string) (core.UserProfile, bool)

	// SaveProfile replaces the user's profile wholesale.
	SaveProfile(userID string, profile core.UserProfile)

	// DeleteProfile removes the user's profile.
	DeleteProfile(userID string)

	// ProfileUserIDs lists every user with a stored profile, for the
	// scheduled morning send.
	ProfileUserIDs() []string

	// RecentArticles returns the last delivered ordered article list.
	RecentArticles(userID string) []core.Article

	// SaveRecentArticles replaces the last delivered article list.
	SaveRecentArticles(userID string, articles []core.Article)

	// Context returns the user's conversation context, if any.
	Context(userID string) (core.ConversationContext, bool)

	// SaveContext overwrites the user's conversation context.
	SaveContext(userID string, ctx core.ConversationContext)

	// ClearContext removes the user's conversation context.
	ClearContext(userID string)

	// PurgeStaleContexts removes contexts older than maxAge and returns how
	// many were dropped.
	PurgeStaleContexts(maxAge time.Duration) int

	// Shown-key accessors back the freshness tracker.
	ShownKeys(userID string) []string
	AppendShown(userID string, keys []string)
	ReplaceShown(userID string, keys []string)
	ClearShown(userID string)

	// Acquire takes the user's lock and returns its release function. Digest
	// builds and conversational writes for one user serialize through this so
	// filter-unseen and record-shown cannot interleave across requests.
	Acquire(userID string) (release func())

	// Close releases driver resources.
	Close() error
}

// Open creates a store for the configured driver.
func Open(driver, dataDir string) (UserState, error) {
	switch driver {
	case "memory", "":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(dataDir)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// lockTable hands out one mutex per user id.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) acquire(userID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[userID] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
