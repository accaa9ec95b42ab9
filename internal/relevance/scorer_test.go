package relevance

import (
	"testing"
	"time"

	"pulsebot/internal/core"
)

var scoreNow = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func designProfile(interests ...string) core.UserProfile {
	return core.UserProfile{PrimaryRole: core.CategoryDesign, SecondaryInterests: interests}
}

func TestScoreIsNeverNegative(t *testing.T) {
	// Stack several non-design penalties against a design profile.
	article := core.Article{
		Title:    "Kubernetes Backend Database Server Kernel Tuning",
		Summary:  "devops compiler terminal blockchain",
		Category: core.CategoryEngineering,
	}
	if got := Score(article, designProfile(), scoreNow); got != 0 {
		t.Errorf("expected penalized score to clamp to 0, got %d", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	article := core.Article{
		Title:     "Figma's New Auto Layout Features",
		Summary:   "Auto layout improvements for design systems",
		Source:    "Figma Blog",
		Category:  core.CategoryDesign,
		Published: scoreNow.Add(-2 * time.Hour),
	}
	profile := designProfile("figma")

	first := Score(article, profile, scoreNow)
	for i := 0; i < 20; i++ {
		if got := Score(article, profile, scoreNow); got != first {
			t.Fatalf("score not reproducible: got %d then %d", first, got)
		}
	}
}

func TestScoreCategoryMatch(t *testing.T) {
	article := core.Article{
		Title:    "Quarterly Platform Update",
		Category: core.CategoryEngineering,
	}
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	if got := Score(article, profile, scoreNow); got != 25 {
		t.Errorf("expected bare category match to score 25, got %d", got)
	}
}

func TestScoreInterestStacking(t *testing.T) {
	article := core.Article{
		Title:    "Rust rewrites are everywhere",
		Category: core.CategoryGeneral,
	}
	// The same interest listed twice stacks; preserved behavior.
	once := Score(article, core.UserProfile{
		PrimaryRole:        core.CategoryEngineering,
		SecondaryInterests: []string{"rust"},
	}, scoreNow)
	twice := Score(article, core.UserProfile{
		PrimaryRole:        core.CategoryEngineering,
		SecondaryInterests: []string{"rust", "rust"},
	}, scoreNow)

	if twice-once != 8 {
		t.Errorf("expected duplicated interest to add 8 points, got %d then %d", once, twice)
	}
}

func TestScoreRecencyScales(t *testing.T) {
	base := core.Article{Title: "Platform news", Category: core.CategoryGeneral}

	cases := []struct {
		age       time.Duration
		design    int
		nonDesign int
	}{
		{12 * time.Hour, 12, 8},
		{48 * time.Hour, 6, 4},
		{5 * 24 * time.Hour, 3, 2},
		{30 * 24 * time.Hour, 0, 0},
	}

	for _, tc := range cases {
		article := base
		article.Published = scoreNow.Add(-tc.age)

		nd := Score(article, core.UserProfile{PrimaryRole: core.CategoryEngineering}, scoreNow)
		if nd != tc.nonDesign {
			t.Errorf("age %v: non-design recency = %d, want %d", tc.age, nd, tc.nonDesign)
		}
		d := Score(article, designProfile(), scoreNow)
		if d != tc.design {
			t.Errorf("age %v: design recency = %d, want %d", tc.age, d, tc.design)
		}
	}
}

func TestScorePopularityTiers(t *testing.T) {
	base := core.Article{Title: "Platform news", Category: core.CategoryGeneral}
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	popular := base
	popular.PopularityScore = 150
	if got := Score(popular, profile, scoreNow); got != 5 {
		t.Errorf("popularity > 100 should add 5, got %d", got)
	}

	mid := base
	mid.PopularityScore = 60
	if got := Score(mid, profile, scoreNow); got != 3 {
		t.Errorf("popularity > 50 should add 3, got %d", got)
	}
}

func TestScoreDesignBonusesOutrankEngineeringNoise(t *testing.T) {
	figma := core.Article{
		Title:     "Figma's New Auto Layout Features",
		Summary:   "Improvements for building layouts faster",
		Source:    "Figma Blog",
		Category:  core.CategoryDesign,
		Published: scoreNow.Add(-3 * time.Hour),
	}
	profile := designProfile("figma")
	figmaScore := Score(figma, profile, scoreNow)

	noise := core.Article{
		Title:     "Optimizing Postgres Vacuum Settings",
		Summary:   "Database tuning for large tables",
		Category:  core.CategoryEngineering,
		Published: scoreNow.Add(-3 * time.Hour),
	}
	noiseScore := Score(noise, profile, scoreNow)

	if figmaScore <= noiseScore {
		t.Errorf("figma article (%d) must outscore engineering noise (%d)", figmaScore, noiseScore)
	}
}
