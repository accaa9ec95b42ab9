package digest

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"pulsebot/internal/core"
	"pulsebot/internal/search"
	"pulsebot/internal/store"
)

type stubFetcher struct {
	pool []core.Article
}

func (s *stubFetcher) Candidates(ctx context.Context) []core.Article {
	out := make([]core.Article, len(s.pool))
	copy(out, s.pool)
	return out
}

func engineeringPool(n int) []core.Article {
	pool := make([]core.Article, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, core.Article{
			Title:     fmt.Sprintf("Kubernetes Release Notes Volume %d", i),
			Link:      fmt.Sprintf("https://example.com/k8s-%d", i),
			Source:    "HN",
			Category:  core.CategoryEngineering,
			Published: time.Now().UTC().Add(-2 * time.Hour),
		})
	}
	return pool
}

func newCurator(pool []core.Article, seed int64) (*Curator, store.UserState) {
	userState := store.NewMemory()
	c := NewCurator(userState, &stubFetcher{pool: pool}, Options{
		TargetCount:   5,
		MinGuaranteed: 3,
		QualityCutoff: 20,
		Rand:          rand.New(rand.NewSource(seed)),
	})
	return c, userState
}

func TestBuildDigestSurfacesHighScoringInterestMatch(t *testing.T) {
	profile := core.UserProfile{
		PrimaryRole:        core.CategoryDesign,
		SecondaryInterests: []string{"figma"},
	}

	pool := []core.Article{{
		Title:     "Figma's New Auto Layout Features",
		Link:      "https://example.com/figma-auto-layout",
		Source:    "Figma Blog",
		Published: time.Now().UTC().Add(-3 * time.Hour),
	}}
	for i := 0; i < 9; i++ {
		pool = append(pool, core.Article{
			Title:     fmt.Sprintf("Postgres Replication Deep Dive Part %d", i),
			Link:      fmt.Sprintf("https://example.com/pg-%d", i),
			Source:    "HN",
			Category:  core.CategoryEngineering,
			Published: time.Now().UTC().Add(-3 * time.Hour),
		})
	}

	c, _ := newCurator(pool, 11)
	out := c.BuildDigest(context.Background(), "u1", profile)

	found := false
	for _, article := range out {
		if article.Title == "Figma's New Auto Layout Features" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the Figma article in the digest, got %+v", out)
	}
}

func TestBuildDigestGuaranteedFloorForMismatchedFeed(t *testing.T) {
	// A design user whose feed carries only engineering stories still gets a
	// full digest from the baseline floor.
	profile := core.UserProfile{PrimaryRole: core.CategoryDesign}
	c, _ := newCurator(engineeringPool(10), 29)

	out := c.BuildDigest(context.Background(), "u1", profile)
	if len(out) != 5 {
		t.Fatalf("expected a full digest from the baseline floor, got %d", len(out))
	}
	for _, article := range out {
		if !article.IsGuaranteed {
			t.Errorf("article %q should come from the guaranteed floor", article.Title)
		}
	}
}

func TestBuildDigestSecondCallDiffers(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	c, _ := newCurator(engineeringPool(12), 3)

	first := c.BuildDigest(context.Background(), "u1", profile)
	if len(first) != 5 {
		t.Fatalf("expected a full first digest, got %d articles", len(first))
	}

	second := c.BuildDigest(context.Background(), "u1", profile)
	if len(second) == 0 {
		t.Fatal("expected a non-empty second digest")
	}

	seen := make(map[string]bool)
	for _, article := range first {
		seen[article.Key()] = true
	}
	for _, article := range second {
		if seen[article.Key()] {
			t.Errorf("article %q repeated across consecutive digests", article.Title)
		}
	}
}

func TestBuildDigestRecordsRecentArticles(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	c, userState := newCurator(engineeringPool(8), 5)

	out := c.BuildDigest(context.Background(), "u1", profile)
	recent := userState.RecentArticles("u1")

	if len(recent) != len(out) {
		t.Fatalf("recent list (%d) does not match delivered digest (%d)", len(recent), len(out))
	}
	for i := range out {
		if recent[i].Title != out[i].Title {
			t.Errorf("recent order diverged at %d: %q vs %q", i, recent[i].Title, out[i].Title)
		}
	}
}

func TestResolveReferenceAgainstDelivered(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	c, _ := newCurator(engineeringPool(8), 7)

	out := c.BuildDigest(context.Background(), "u1", profile)
	resolved, recent := c.ResolveReference("u1", "tell me about article 2")

	if len(recent) != len(out) {
		t.Fatalf("expected the delivered list as candidates, got %d", len(recent))
	}
	if resolved == nil {
		t.Fatal("expected an explicit index to resolve")
	}
	if resolved.Article.Title != out[1].Title {
		t.Errorf("expected %q, got %q", out[1].Title, resolved.Article.Title)
	}
}

func TestRecordExchangeEnablesFollowUps(t *testing.T) {
	c, _ := newCurator(engineeringPool(8), 9)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	out := c.BuildDigest(context.Background(), "u1", profile)

	c.RecordExchange("u1", "tell me about article 2", out[1], core.TopicTechnicalDetails, "explained the release")

	resolved, _ := c.ResolveReference("u1", "interesting, go deeper please")
	if resolved == nil {
		t.Fatal("expected the follow-up to resolve")
	}
	if resolved.Article.Title != out[1].Title {
		t.Errorf("expected the last discussed article, got %q", resolved.Article.Title)
	}
	if resolved.Strategy != core.StrategyFollowUp {
		t.Errorf("expected follow_up strategy, got %q", resolved.Strategy)
	}
}

func TestStaleContextIsIgnored(t *testing.T) {
	c, userState := newCurator(engineeringPool(8), 13)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	out := c.BuildDigest(context.Background(), "u1", profile)

	c.RecordExchange("u1", "tell me about article 1", out[0], core.TopicGeneralDiscussion, "chatted")

	// Age the context beyond the 24h window.
	ctx, _ := userState.Context("u1")
	ctx.Timestamp = time.Now().Add(-25 * time.Hour)
	userState.SaveContext("u1", ctx)

	if resolved, _ := c.ResolveReference("u1", "go deeper on that"); resolved != nil {
		t.Errorf("expected stale context to be ignored, got %+v", resolved)
	}
}

func TestSearchAndRememberPrependsCapped(t *testing.T) {
	c, userState := newCurator(nil, 17)
	userState.SaveRecentArticles("u1", engineeringPool(12))

	results := make([]search.Result, 0, 5)
	for i := 0; i < 5; i++ {
		results = append(results, search.Result{
			URL:    fmt.Sprintf("https://example.com/r%d", i),
			Title:  fmt.Sprintf("Search Result %d", i),
			Domain: "example.com",
		})
	}
	c.SearchAndRemember("u1", "kubernetes news", results)

	recent := userState.RecentArticles("u1")
	if len(recent) != 15 {
		t.Fatalf("expected the recent list capped at 15, got %d", len(recent))
	}
	if recent[0].Title != "Search Result 0" || recent[0].Category != core.CategorySearchResult {
		t.Errorf("expected search results prepended, got %+v", recent[0])
	}

	ctx, ok := userState.Context("u1")
	if !ok || ctx.LastSearch == nil || ctx.LastSearch.Query != "kubernetes news" {
		t.Fatalf("expected the search remembered in context, got %+v", ctx)
	}

	// "read this" targets the remembered results.
	resolved, _ := c.ResolveReference("u1", "read this first result")
	if resolved == nil || resolved.Strategy != core.StrategySearchResult {
		t.Errorf("expected a search-result resolution, got %+v", resolved)
	}
}

func TestResetUserRestoresFreshness(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	pool := engineeringPool(5)
	c, userState := newCurator(pool, 19)

	first := c.BuildDigest(context.Background(), "u1", profile)
	if len(first) != 5 {
		t.Fatalf("expected all 5 articles delivered, got %d", len(first))
	}
	if out := c.BuildDigest(context.Background(), "u1", profile); len(out) != 0 {
		t.Fatalf("expected an empty digest once everything was seen, got %d", len(out))
	}

	c.ResetUser("u1")

	if out := c.BuildDigest(context.Background(), "u1", profile); len(out) != 5 {
		t.Errorf("expected a full digest after reset, got %d", len(out))
	}
	if recent := userState.RecentArticles("u1"); len(recent) != 5 {
		t.Errorf("expected recent list rebuilt after reset, got %d", len(recent))
	}
}

func TestPurgeStaleContexts(t *testing.T) {
	c, userState := newCurator(nil, 23)
	userState.SaveContext("fresh", core.ConversationContext{Timestamp: time.Now()})
	userState.SaveContext("stale", core.ConversationContext{Timestamp: time.Now().Add(-30 * time.Hour)})

	if purged := c.PurgeStaleContexts(); purged != 1 {
		t.Errorf("expected 1 purged context, got %d", purged)
	}
	if _, ok := userState.Context("fresh"); !ok {
		t.Error("fresh context should survive the sweep")
	}
}
