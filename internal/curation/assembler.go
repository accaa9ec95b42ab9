package curation

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"pulsebot/internal/core"
)

// Scored pairs a candidate with its relevance score.
type Scored struct {
	Article core.Article
	Score   int
}

// Assembler merges a guaranteed-category subset with the best of the scored
// pool under a target count. A pure score sort would freeze the top-N across
// repeated short-interval calls and could starve baseline topics entirely for
// narrow profiles, so selection trades strict optimality for variety: scores
// get a small multiplicative jitter per run and the combined list is
// shuffled. All randomness flows through the injected source so tests can
// seed it.
type Assembler struct {
	rng           *rand.Rand
	minGuaranteed int
	qualityCutoff int
}

// NewAssembler creates an assembler. A nil rng falls back to a time-seeded
// source.
func NewAssembler(rng *rand.Rand, minGuaranteed, qualityCutoff int) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if minGuaranteed < 0 {
		minGuaranteed = 0
	}
	return &Assembler{
		rng:           rng,
		minGuaranteed: minGuaranteed,
		qualityCutoff: qualityCutoff,
	}
}

// Assemble returns the final ordered article list. It never returns more than
// target articles, and never fewer than min(target, available) where
// available counts the union of both pools.
func (a *Assembler) Assemble(profile core.UserProfile, scored []Scored, guaranteed []core.Article, target int) []core.Article {
	if target <= 0 {
		return nil
	}

	picked := make([]core.Article, 0, target)
	taken := make(map[string]bool)

	// Baseline topical floor: a few guaranteed-category articles regardless
	// of profile match.
	quota := a.minGuaranteed
	if quota > target {
		quota = target
	}
	for _, article := range guaranteed {
		if len(picked) >= quota {
			break
		}
		key := titleKey(article.Title)
		if taken[key] {
			continue
		}
		taken[key] = true
		article.IsGuaranteed = true
		picked = append(picked, article)
	}

	remaining := target - len(picked)
	picked = append(picked, a.pickScored(profile, scored, taken, remaining)...)

	// The quota is a floor, not a ceiling: when the scored pool cannot fill
	// the remainder, keep drawing from the guaranteed pool.
	for _, article := range guaranteed {
		if len(picked) >= target {
			break
		}
		key := titleKey(article.Title)
		if taken[key] {
			continue
		}
		taken[key] = true
		article.IsGuaranteed = true
		picked = append(picked, article)
	}

	// Shuffle so guaranteed items are not always first, then truncate.
	a.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > target {
		picked = picked[:target]
	}
	return picked
}

// pickScored selects up to n articles from the scored pool in jittered-score
// order. Design profiles prefer candidates above the quality cutoff, backing
// off to lower-scored items only when the cut would leave the digest short.
func (a *Assembler) pickScored(profile core.UserProfile, scored []Scored, taken map[string]bool, n int) []core.Article {
	if n <= 0 || len(scored) == 0 {
		return nil
	}

	type jittered struct {
		article core.Article
		score   int
		ranked  float64
	}
	pool := make([]jittered, 0, len(scored))
	for _, s := range scored {
		if taken[titleKey(s.Article.Title)] {
			continue
		}
		// ±10% multiplicative jitter per run.
		factor := 0.9 + 0.2*a.rng.Float64()
		pool = append(pool, jittered{article: s.Article, score: s.Score, ranked: float64(s.Score) * factor})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].ranked > pool[j].ranked
	})

	var out []core.Article
	if profile.PrimaryRole == core.CategoryDesign && a.qualityCutoff > 0 {
		for _, j := range pool {
			if len(out) >= n {
				break
			}
			if j.score >= a.qualityCutoff {
				markTaken(taken, j.article)
				out = append(out, j.article)
			}
		}
		// Backfill with lower-scored items when the cutoff left us short.
		for _, j := range pool {
			if len(out) >= n {
				break
			}
			if !taken[titleKey(j.article.Title)] {
				markTaken(taken, j.article)
				out = append(out, j.article)
			}
		}
		return out
	}

	for _, j := range pool {
		if len(out) >= n {
			break
		}
		markTaken(taken, j.article)
		out = append(out, j.article)
	}
	return out
}

func markTaken(taken map[string]bool, article core.Article) {
	taken[titleKey(article.Title)] = true
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
