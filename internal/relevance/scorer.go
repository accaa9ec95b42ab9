package relevance

import (
	"strings"
	"time"

	"pulsebot/internal/core"
	"pulsebot/internal/taxonomy"
)

// Scoring weights. The recency scale is the design-path scale from the
// additive point model (+12/+6/+3); non-design roles use the smaller
// +8/+4/+2 scale. One scale per path, applied consistently.
const (
	categoryMatchPoints = 25

	designCoreTermPoints    = 50
	designToolPoints        = 30
	designProcessPoints     = 25
	designTrendPoints       = 20
	designFrontendPoints    = 15
	nonDesignTermPenalty    = 20
	designSourceBonusPoints = 10

	designInterestPoints  = 15
	genericInterestPoints = 8

	popularityHighPoints = 5
	popularityMidPoints  = 3
)

// Score computes the relevance of an article for a profile using an additive
// point model, floored at zero. It is deterministic for fixed inputs: any
// randomness for variety belongs to the selection assembler, never here.
func Score(article core.Article, profile core.UserProfile, now time.Time) int {
	text := strings.ToLower(article.Title + " " + article.Summary)
	isDesign := profile.PrimaryRole == core.CategoryDesign

	score := 0
	if article.Category == profile.PrimaryRole {
		score += categoryMatchPoints
	}

	if isDesign {
		score += designCoreTermPoints * len(taxonomy.MatchingTerms(text, taxonomy.DesignCoreTerms))
		score += designToolPoints * len(taxonomy.MatchingTerms(text, taxonomy.DesignTools))
		score += designProcessPoints * len(taxonomy.MatchingTerms(text, taxonomy.DesignProcessTerms))
		score += designTrendPoints * len(taxonomy.MatchingTerms(text, taxonomy.DesignTrendTerms))
		if taxonomy.HasDesignContext(text) {
			score += designFrontendPoints * len(taxonomy.MatchingTerms(text, taxonomy.FrontendTerms))
		}
		score -= nonDesignTermPenalty * len(taxonomy.MatchingTerms(text, taxonomy.NonDesignTechTerms))
		if taxonomy.ContainsAny(article.Source, taxonomy.DesignSourceTerms) {
			score += designSourceBonusPoints
		}
	}

	// Interest matches are intentionally not deduplicated: a profile listing
	// the same interest twice stacks the reward.
	for _, interest := range profile.SecondaryInterests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" || !strings.Contains(text, interest) {
			continue
		}
		if taxonomy.HasDesignContext(interest) {
			score += designInterestPoints
		} else {
			score += genericInterestPoints
		}
	}

	score += recencyPoints(article.Published, now, isDesign)

	if article.PopularityScore > 100 {
		score += popularityHighPoints
	} else if article.PopularityScore > 50 {
		score += popularityMidPoints
	}

	if score < 0 {
		score = 0
	}
	return score
}

func recencyPoints(published, now time.Time, isDesign bool) int {
	if published.IsZero() {
		return 0
	}
	age := now.Sub(published)
	switch {
	case age < 0:
		// Future-dated feeds happen; treat as published today.
		fallthrough
	case age <= 24*time.Hour:
		if isDesign {
			return 12
		}
		return 8
	case age <= 72*time.Hour:
		if isDesign {
			return 6
		}
		return 4
	case age <= 7*24*time.Hour:
		if isDesign {
			return 3
		}
		return 2
	default:
		return 0
	}
}
