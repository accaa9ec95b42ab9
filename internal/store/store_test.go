package store

import (
	"testing"
	"time"

	"pulsebot/internal/core"
)

// drivers returns every UserState implementation under test.
func drivers(t *testing.T) map[string]UserState {
	t.Helper()

	sqlite, err := NewSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]UserState{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	s, err := Open("memory", "")
	if err != nil {
		t.Fatalf("unexpected error for memory driver: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected *Memory, got %T", s)
	}

	if _, err := Open("bolt", ""); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.Profile("u1"); ok {
				t.Fatal("expected no profile for a new user")
			}

			profile := core.UserProfile{
				PrimaryRole:        core.CategoryDesign,
				SecondaryInterests: []string{"figma", "typography"},
				ExperienceLevel:    "senior",
			}
			s.SaveProfile("u1", profile)

			got, ok := s.Profile("u1")
			if !ok {
				t.Fatal("expected a profile after save")
			}
			if got.PrimaryRole != core.CategoryDesign || len(got.SecondaryInterests) != 2 {
				t.Errorf("profile did not round-trip: %+v", got)
			}

			// Saves replace wholesale.
			s.SaveProfile("u1", core.UserProfile{PrimaryRole: core.CategoryEngineering})
			got, _ = s.Profile("u1")
			if got.PrimaryRole != core.CategoryEngineering || len(got.SecondaryInterests) != 0 {
				t.Errorf("expected wholesale replacement, got %+v", got)
			}

			s.DeleteProfile("u1")
			if _, ok := s.Profile("u1"); ok {
				t.Error("expected no profile after delete")
			}
		})
	}
}

func TestProfileUserIDs(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if ids := s.ProfileUserIDs(); len(ids) != 0 {
				t.Fatalf("expected no users in an empty store, got %v", ids)
			}

			s.SaveProfile("u2", core.UserProfile{PrimaryRole: core.CategoryProduct})
			s.SaveProfile("u1", core.UserProfile{PrimaryRole: core.CategoryDesign})

			ids := s.ProfileUserIDs()
			if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
				t.Errorf("expected sorted user ids, got %v", ids)
			}
		})
	}
}

func TestRecentArticlesRoundTrip(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			articles := []core.Article{
				{Title: "First", Source: "HN", Category: core.CategoryEngineering},
				{Title: "Second", Source: "Reddit", Category: core.CategoryDesign},
			}
			s.SaveRecentArticles("u1", articles)

			got := s.RecentArticles("u1")
			if len(got) != 2 || got[0].Title != "First" || got[1].Category != core.CategoryDesign {
				t.Errorf("recent articles did not round-trip: %+v", got)
			}
			if got := s.RecentArticles("u2"); len(got) != 0 {
				t.Errorf("expected no recent articles for another user, got %d", len(got))
			}
		})
	}
}

func TestContextRoundTripAndPurge(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.Context("u1"); ok {
				t.Fatal("expected no context for a new user")
			}

			fresh := core.ConversationContext{
				LastArticleDiscussed: "Figma Ships Variables",
				Topic:                core.TopicDesignProcess,
				Timestamp:            time.Now().UTC(),
			}
			stale := core.ConversationContext{
				LastArticleDiscussed: "Old Story",
				Timestamp:            time.Now().UTC().Add(-48 * time.Hour),
			}
			s.SaveContext("u1", fresh)
			s.SaveContext("u2", stale)

			got, ok := s.Context("u1")
			if !ok || got.LastArticleDiscussed != "Figma Ships Variables" || got.Topic != core.TopicDesignProcess {
				t.Errorf("context did not round-trip: %+v", got)
			}

			if purged := s.PurgeStaleContexts(24 * time.Hour); purged != 1 {
				t.Errorf("expected 1 purged context, got %d", purged)
			}
			if _, ok := s.Context("u2"); ok {
				t.Error("expected the stale context to be purged")
			}
			if _, ok := s.Context("u1"); !ok {
				t.Error("expected the fresh context to survive the purge")
			}

			s.ClearContext("u1")
			if _, ok := s.Context("u1"); ok {
				t.Error("expected no context after clear")
			}
		})
	}
}

func TestShownKeysRoundTrip(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			s.AppendShown("u1", []string{"a:HN", "b:HN"})
			s.AppendShown("u1", []string{"c:Reddit"})

			got := s.ShownKeys("u1")
			if len(got) != 3 || got[0] != "a:HN" || got[2] != "c:Reddit" {
				t.Fatalf("expected appends to preserve insertion order, got %v", got)
			}

			s.ReplaceShown("u1", []string{"x:HN"})
			if got := s.ShownKeys("u1"); len(got) != 1 || got[0] != "x:HN" {
				t.Errorf("expected wholesale replacement, got %v", got)
			}

			s.ClearShown("u1")
			if got := s.ShownKeys("u1"); len(got) != 0 {
				t.Errorf("expected no keys after clear, got %v", got)
			}
		})
	}
}

func TestAcquireSerializesPerUser(t *testing.T) {
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			release := s.Acquire("u1")

			// A different user's lock is independent.
			otherDone := make(chan struct{})
			go func() {
				releaseOther := s.Acquire("u2")
				releaseOther()
				close(otherDone)
			}()
			select {
			case <-otherDone:
			case <-time.After(time.Second):
				t.Fatal("lock for another user blocked")
			}

			// The same user's lock waits for release.
			sameDone := make(chan struct{})
			go func() {
				releaseSame := s.Acquire("u1")
				releaseSame()
				close(sameDone)
			}()
			select {
			case <-sameDone:
				t.Fatal("second acquire for the same user did not block")
			case <-time.After(50 * time.Millisecond):
			}

			release()
			select {
			case <-sameDone:
			case <-time.After(time.Second):
				t.Fatal("lock was not released")
			}
		})
	}
}
