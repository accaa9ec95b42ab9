// Package conversation resolves free-text messages against recently shown
// articles and classifies what each exchange was about.
package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"pulsebot/internal/core"
	"pulsebot/internal/taxonomy"
)

// minTokenLength excludes short tokens from keyword-overlap matching.
const minTokenLength = 4

var indexPattern = regexp.MustCompile(`\b(?:article|story|number)\s*#?\s*(\d+)\b`)

var ordinals = map[string]int{
	"first":   1,
	"second":  2,
	"third":   3,
	"fourth":  4,
	"fifth":   5,
	"sixth":   6,
	"seventh": 7,
	"eighth":  8,
	"ninth":   9,
	"tenth":   10,
}

var ordinalPattern = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:article|story|one|item)\b`)

// Resolve maps a message onto one of the recently shown articles. Strategies
// are tried in strict priority order: explicit index, search-result phrase,
// topic-keyword table, keyword overlap, follow-up cue against the last
// discussed article. A nil result means the caller should ask the user to
// disambiguate rather than guess.
//
// Resolve never mutates state; callers persist the outcome into the user's
// conversation context only after producing a response.
func Resolve(message string, recent []core.Article, ctx *core.ConversationContext) *core.ResolvedReference {
	lower := strings.ToLower(message)

	// An explicit index short-circuits everything, including an out-of-range
	// one: "article 7" against a 3-item digest is a disambiguation case, not
	// a license to keyword-guess.
	if idx, ok := explicitIndex(lower); ok {
		if idx >= 1 && idx <= len(recent) {
			return &core.ResolvedReference{Article: recent[idx-1], Strategy: core.StrategyExplicitIndex}
		}
		return nil
	}

	if ctx != nil && ctx.LastSearch != nil && len(ctx.LastSearch.Results) > 0 {
		if taxonomy.ContainsAny(lower, taxonomy.SearchResultPhrases) {
			results := ctx.LastSearch.Results
			if best, ok := bestOverlap(lower, results); ok {
				return &core.ResolvedReference{Article: results[best], Strategy: core.StrategySearchResult}
			}
			return &core.ResolvedReference{Article: results[0], Strategy: core.StrategySearchResult}
		}
	}

	if article, ok := topicKeywordMatch(lower, recent); ok {
		return &core.ResolvedReference{Article: article, Strategy: core.StrategyTopicKeyword}
	}

	if best, ok := bestOverlap(lower, recent); ok {
		return &core.ResolvedReference{Article: recent[best], Strategy: core.StrategyKeywordOverlap}
	}

	if ctx != nil && ctx.LastArticleDiscussed != "" && isFollowUp(lower) {
		return &core.ResolvedReference{
			Article:  followUpArticle(ctx.LastArticleDiscussed, recent),
			Strategy: core.StrategyFollowUp,
		}
	}

	return nil
}

// explicitIndex extracts a 1-based article index from "article 2", "story #3"
// or ordinal forms like "the second article".
func explicitIndex(lower string) (int, bool) {
	if m := indexPattern.FindStringSubmatch(lower); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err == nil {
			return idx, true
		}
	}
	if m := ordinalPattern.FindStringSubmatch(lower); m != nil {
		return ordinals[m[1]], true
	}
	return 0, false
}

// topicKeywordMatch looks up a topic cue in the message and returns the first
// recent article whose title carries that topic's vocabulary.
func topicKeywordMatch(lower string, recent []core.Article) (core.Article, bool) {
	for _, cue := range taxonomy.TopicArticleCues {
		if !strings.Contains(lower, cue) {
			continue
		}
		keywords := taxonomy.TopicArticleKeywords[cue]
		for _, article := range recent {
			if taxonomy.ContainsAny(article.Title, keywords) {
				return article, true
			}
		}
	}
	return core.Article{}, false
}

// bestOverlap scores each candidate by the count of significant tokens shared
// with the message and returns the index of the best match. Requires at least
// one shared token; earlier candidates win ties.
func bestOverlap(lower string, candidates []core.Article) (int, bool) {
	messageTokens := significantTokens(lower)
	if len(messageTokens) == 0 {
		return 0, false
	}

	bestIdx, bestCount := -1, 0
	for i, article := range candidates {
		count := 0
		articleTokens := significantTokens(strings.ToLower(article.Title + " " + article.Summary))
		for token := range messageTokens {
			if articleTokens[token] {
				count++
			}
		}
		if count > bestCount {
			bestIdx, bestCount = i, count
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return bestIdx, true
}

// isFollowUp reports whether the message continues the previous exchange.
// Cue phrases match as substrings; pronouns only as whole tokens.
func isFollowUp(lower string) bool {
	if taxonomy.ContainsAny(lower, taxonomy.FollowUpCues) {
		return true
	}
	for _, token := range tokenize(lower) {
		if taxonomy.FollowUpPronouns[token] {
			return true
		}
	}
	return false
}

// followUpArticle prefers the full article record when the remembered title is
// still among the recent list, falling back to a title-only record.
func followUpArticle(title string, recent []core.Article) core.Article {
	for _, article := range recent {
		if strings.EqualFold(article.Title, title) {
			return article
		}
	}
	return core.Article{Title: title}
}

// ClassifyTopic labels what an exchange was about, for context persistence.
// Cue groups are checked in a fixed order so classification is deterministic.
func ClassifyTopic(message string) core.Topic {
	lower := strings.ToLower(message)
	for _, topic := range taxonomy.TopicOrder {
		if taxonomy.ContainsAny(lower, taxonomy.TopicCues[topic]) {
			return topic
		}
	}
	return core.TopicGeneralDiscussion
}

func significantTokens(lower string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range tokenize(lower) {
		if len(token) < minTokenLength || taxonomy.Stopwords[token] {
			continue
		}
		tokens[token] = true
	}
	return tokens
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
