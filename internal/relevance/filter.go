// Package relevance decides whether candidate articles are admissible for a
// profile and how strongly they match it. Both the boolean filter and the
// numeric scorer consume the shared taxonomy so they can never disagree about
// what counts as relevant.
package relevance

import (
	"strings"

	"pulsebot/internal/categorize"
	"pulsebot/internal/core"
	"pulsebot/internal/taxonomy"
)

// IsRelevant reports whether an article title is admissible for the given
// role and interests.
//
// The design role is closed-world: shared upstream feeds flood design users
// with generic tech content, so a candidate is rejected unless one of the
// positive checks matches. Every other role is open-world: a role-keyword
// match, an interest match, or a generic tech/innovation term is enough.
func IsRelevant(title string, role core.Category, interests []string) bool {
	if role == core.CategoryDesign {
		return isDesignRelevant(title, interests)
	}

	if terms, ok := taxonomy.RoleTerms[role]; ok && taxonomy.ContainsAny(title, terms) {
		return true
	}
	if matchesAnyInterest(title, interests) {
		return true
	}
	return taxonomy.ContainsAny(title, taxonomy.GenericTechTerms)
}

func isDesignRelevant(title string, interests []string) bool {
	if taxonomy.ContainsAny(title, taxonomy.DesignPhrases) ||
		taxonomy.ContainsAny(title, taxonomy.DesignCoreTerms) {
		return true
	}
	if matchesAnyInterest(title, interests) {
		return true
	}
	if categorize.Categorize(title) == core.CategoryDesign {
		return true
	}
	if taxonomy.ContainsAny(title, taxonomy.CreativeTerms) {
		return true
	}
	if taxonomy.ContainsAny(title, taxonomy.DesignTools) {
		return true
	}
	// Component/library vocabulary only counts with design context alongside.
	if taxonomy.ContainsAny(title, taxonomy.FrontendTerms) && taxonomy.HasDesignContext(title) {
		return true
	}
	// Clearly non-design technical content is rejected unless design context
	// co-occurs, and so is everything that matched nothing above.
	return false
}

func matchesAnyInterest(title string, interests []string) bool {
	lower := strings.ToLower(title)
	for _, interest := range interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest != "" && strings.Contains(lower, interest) {
			return true
		}
	}
	return false
}
