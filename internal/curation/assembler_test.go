package curation

import (
	"fmt"
	"math/rand"
	"testing"

	"pulsebot/internal/core"
)

func scoredPool(n, baseScore int) []Scored {
	pool := make([]Scored, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, Scored{
			Article: core.Article{Title: fmt.Sprintf("Scored Article %d", i), Category: core.CategoryEngineering},
			Score:   baseScore + i,
		})
	}
	return pool
}

func guaranteedPool(n int) []core.Article {
	pool := make([]core.Article, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, core.Article{Title: fmt.Sprintf("Guaranteed Article %d", i), Category: core.CategoryTechGeneral})
	}
	return pool
}

func TestAssembleRespectsTargetCount(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(1)), 3, 0)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	out := a.Assemble(profile, scoredPool(20, 10), guaranteedPool(5), 5)
	if len(out) != 5 {
		t.Fatalf("expected exactly 5 articles, got %d", len(out))
	}
}

func TestAssembleNeverUnderfillsWhenPoolAllows(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(2)), 3, 0)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	// Pool smaller than target: return everything available.
	out := a.Assemble(profile, scoredPool(2, 10), guaranteedPool(1), 7)
	if len(out) != 3 {
		t.Fatalf("expected min(target, pool) = 3 articles, got %d", len(out))
	}

	if out := a.Assemble(profile, nil, nil, 5); len(out) != 0 {
		t.Fatalf("expected empty result for empty pools, got %d", len(out))
	}
}

func TestAssembleBackfillsFromGuaranteedWhenScoredRunsDry(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(5)), 3, 0)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	// Nothing scored at all: the guaranteed pool fills past the quota.
	out := a.Assemble(profile, nil, guaranteedPool(10), 5)
	if len(out) != 5 {
		t.Fatalf("expected min(target, available) = 5 articles, got %d", len(out))
	}
	for _, article := range out {
		if !article.IsGuaranteed {
			t.Errorf("backfilled article %q not marked guaranteed", article.Title)
		}
	}

	// Scored pool covers only part of the remainder.
	out = a.Assemble(profile, scoredPool(1, 10), guaranteedPool(10), 5)
	if len(out) != 5 {
		t.Fatalf("expected 5 articles with a partial scored pool, got %d", len(out))
	}
}

func TestAssembleGuaranteedQuota(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(3)), 3, 0)
	profile := core.UserProfile{PrimaryRole: core.CategoryDesign}

	out := a.Assemble(profile, scoredPool(10, 10), guaranteedPool(10), 8)

	guaranteedCount := 0
	for _, article := range out {
		if article.IsGuaranteed {
			guaranteedCount++
		}
	}
	if guaranteedCount != 3 {
		t.Errorf("expected exactly 3 guaranteed articles, got %d", guaranteedCount)
	}
}

func TestAssembleDropsDuplicatesAcrossPools(t *testing.T) {
	a := NewAssembler(rand.New(rand.NewSource(4)), 3, 0)
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	shared := core.Article{Title: "Shared Story", Category: core.CategoryTechGeneral}
	scored := []Scored{{Article: shared, Score: 99}}

	out := a.Assemble(profile, scored, []core.Article{shared}, 5)
	if len(out) != 1 {
		t.Fatalf("expected the shared title to appear once, got %d entries", len(out))
	}
}

func TestAssembleSeededRunsAreReproducible(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}

	first := NewAssembler(rand.New(rand.NewSource(42)), 3, 0).
		Assemble(profile, scoredPool(15, 10), guaranteedPool(4), 5)
	second := NewAssembler(rand.New(rand.NewSource(42)), 3, 0).
		Assemble(profile, scoredPool(15, 10), guaranteedPool(4), 5)

	if len(first) != len(second) {
		t.Fatalf("seeded runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title {
			t.Errorf("seeded runs differ at %d: %q vs %q", i, first[i].Title, second[i].Title)
		}
	}
}

func TestAssembleJitterIsBounded(t *testing.T) {
	// A candidate scoring far above the rest must survive the ±10% jitter in
	// every run.
	profile := core.UserProfile{PrimaryRole: core.CategoryEngineering}
	pool := scoredPool(10, 10)
	pool = append(pool, Scored{
		Article: core.Article{Title: "Standout Story", Category: core.CategoryEngineering},
		Score:   500,
	})

	for seed := int64(0); seed < 20; seed++ {
		a := NewAssembler(rand.New(rand.NewSource(seed)), 0, 0)
		out := a.Assemble(profile, pool, nil, 3)
		found := false
		for _, article := range out {
			if article.Title == "Standout Story" {
				found = true
			}
		}
		if !found {
			t.Fatalf("seed %d: standout candidate was jittered out of the digest", seed)
		}
	}
}

func TestAssembleDesignQualityCutoffWithBackfill(t *testing.T) {
	profile := core.UserProfile{PrimaryRole: core.CategoryDesign}
	a := NewAssembler(rand.New(rand.NewSource(7)), 0, 50)

	pool := []Scored{
		{Article: core.Article{Title: "High Quality Design Story"}, Score: 120},
		{Article: core.Article{Title: "Low Quality Story A"}, Score: 5},
		{Article: core.Article{Title: "Low Quality Story B"}, Score: 5},
	}

	// Only one candidate clears the cutoff, so backfill must still reach the
	// target.
	out := a.Assemble(profile, pool, nil, 3)
	if len(out) != 3 {
		t.Fatalf("expected backfill to reach target of 3, got %d", len(out))
	}

	// With enough candidates above the cutoff, low scorers are dropped.
	pool = []Scored{
		{Article: core.Article{Title: "Design Story A"}, Score: 120},
		{Article: core.Article{Title: "Design Story B"}, Score: 110},
		{Article: core.Article{Title: "Low Quality Story"}, Score: 5},
	}
	out = a.Assemble(profile, pool, nil, 2)
	for _, article := range out {
		if article.Title == "Low Quality Story" {
			t.Error("low-quality candidate selected despite enough above the cutoff")
		}
	}
}
