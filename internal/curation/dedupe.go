// Package curation assembles the final ordered digest from scored candidate
// pools: deduplication, guaranteed-quota selection, jittered ranking, and
// controlled shuffling.
package curation

import (
	"strings"

	"pulsebot/internal/core"
)

// Dedupe removes near-identical candidates keyed on the lower-cased, trimmed
// title. It is stable and first-occurrence-wins. Matching is exact after
// normalization only: near-duplicate titles from different sources are kept
// as distinct entries. That is a documented limitation, not a bug.
func Dedupe(articles []core.Article) []core.Article {
	seen := make(map[string]bool, len(articles))
	out := make([]core.Article, 0, len(articles))
	for _, article := range articles {
		key := strings.ToLower(strings.TrimSpace(article.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, article)
	}
	return out
}
