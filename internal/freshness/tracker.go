// Package freshness tracks which articles each user has already been shown
// so repeated digest calls never repeat content.
package freshness

import (
	"pulsebot/internal/core"
)

// Store persists per-user shown-article keys in insertion order. The tracker
// is written against this interface so the backing store (in-memory map,
// SQLite row per user) can be swapped without changing callers.
type Store interface {
	// ShownKeys returns the user's shown keys in insertion order.
	ShownKeys(userID string) []string

	// AppendShown appends keys to the user's shown set, preserving order.
	AppendShown(userID string, keys []string)

	// ReplaceShown replaces the user's shown set wholesale.
	ReplaceShown(userID string, keys []string)

	// ClearShown removes all shown keys for the user.
	ClearShown(userID string)
}

// Eviction bounds: once a user's set passes MaxEntries, it is truncated to
// the KeepEntries most recently inserted keys.
const (
	MaxEntries  = 150
	KeepEntries = 100
)

// Tracker filters already-seen candidates and records newly delivered ones.
type Tracker struct {
	store Store
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// FilterUnseen returns the subset of articles the user has not been shown.
// The result is always a subset of the input, in input order.
func (t *Tracker) FilterUnseen(userID string, articles []core.Article) []core.Article {
	keys := t.store.ShownKeys(userID)
	if len(keys) == 0 {
		return articles
	}
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		seen[key] = true
	}

	out := make([]core.Article, 0, len(articles))
	for _, article := range articles {
		if !seen[article.Key()] {
			out = append(out, article)
		}
	}
	return out
}

// RecordShown marks every article in a delivered digest as seen, evicting the
// oldest entries once the set exceeds MaxEntries.
func (t *Tracker) RecordShown(userID string, articles []core.Article) {
	if len(articles) == 0 {
		return
	}
	keys := make([]string, 0, len(articles))
	for _, article := range articles {
		keys = append(keys, article.Key())
	}
	t.store.AppendShown(userID, keys)

	all := t.store.ShownKeys(userID)
	if len(all) > MaxEntries {
		t.store.ReplaceShown(userID, all[len(all)-KeepEntries:])
	}
}

// Clear empties the user's shown set. Invoked on explicit user reset.
func (t *Tracker) Clear(userID string) {
	t.store.ClearShown(userID)
}
