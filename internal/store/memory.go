package store

import (
	"sort"
	"sync"
	"time"

	"pulsebot/internal/core"
)

// Memory is the in-process driver. It is the default for local runs and
// tests; state does not survive a restart.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]core.UserProfile
	shown    map[string][]string
	recent   map[string][]core.Article
	contexts map[string]core.ConversationContext

	locks *lockTable
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]core.UserProfile),
		shown:    make(map[string][]string),
		recent:   make(map[string][]core.Article),
		contexts: make(map[string]core.ConversationContext),
		locks:    newLockTable(),
	}
}

func (m *Memory) Profile(userID string) (core.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[userID]
	return profile, ok
}

func (m *Memory) SaveProfile(userID string, profile core.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile
}

func (m *Memory) DeleteProfile(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
}

func (m *Memory) ProfileUserIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.profiles))
	for userID := range m.profiles {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

func (m *Memory) RecentArticles(userID string) []core.Article {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.recent[userID]
	out := make([]core.Article, len(stored))
	copy(out, stored)
	return out
}

func (m *Memory) SaveRecentArticles(userID string, articles []core.Article) {
	stored := make([]core.Article, len(articles))
	copy(stored, articles)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent[userID] = stored
}

func (m *Memory) Context(userID string) (core.ConversationContext, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx, ok := m.contexts[userID]
	return ctx, ok
}

func (m *Memory) SaveContext(userID string, ctx core.ConversationContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[userID] = ctx
}

func (m *Memory) ClearContext(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, userID)
}

func (m *Memory) PurgeStaleContexts(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for userID, ctx := range m.contexts {
		if ctx.Timestamp.Before(cutoff) {
			delete(m.contexts, userID)
			purged++
		}
	}
	return purged
}

func (m *Memory) ShownKeys(userID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.shown[userID]
	out := make([]string, len(stored))
	copy(out, stored)
	return out
}

func (m *Memory) AppendShown(userID string, keys []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown[userID] = append(m.shown[userID], keys...)
}

func (m *Memory) ReplaceShown(userID string, keys []string) {
	stored := make([]string, len(keys))
	copy(stored, keys)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown[userID] = stored
}

func (m *Memory) ClearShown(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shown, userID)
}

func (m *Memory) Acquire(userID string) func() {
	return m.locks.acquire(userID)
}

func (m *Memory) Close() error {
	return nil
}
