// Package digest orchestrates the curation pipeline: candidate fetch,
// categorization, relevance filtering and scoring, freshness filtering,
// dedupe, and final assembly, plus the conversational state operations
// layered on top of the delivered list.
package digest

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"pulsebot/internal/categorize"
	"pulsebot/internal/conversation"
	"pulsebot/internal/core"
	"pulsebot/internal/curation"
	"pulsebot/internal/freshness"
	"pulsebot/internal/logger"
	"pulsebot/internal/relevance"
	"pulsebot/internal/search"
	"pulsebot/internal/store"
	"pulsebot/internal/taxonomy"
)

// recentCap bounds the per-user remembered article list, including prepended
// search results.
const recentCap = 15

// contextMaxAge is how long a conversation context stays resolvable.
const contextMaxAge = 24 * time.Hour

// Fetcher supplies raw digest candidates.
type Fetcher interface {
	Candidates(ctx context.Context) []core.Article
}

// Options tune the curation pipeline.
type Options struct {
	TargetCount   int
	MinGuaranteed int
	QualityCutoff int
	Rand          *rand.Rand // nil for a time-seeded source
}

// Curator owns per-user digest construction and conversational resolution.
// All mutations of one user's state run under that user's lock.
type Curator struct {
	store     store.UserState
	fetcher   Fetcher
	tracker   *freshness.Tracker
	assembler *curation.Assembler
	target    int
	now       func() time.Time
}

// NewCurator wires the pipeline against a state store and candidate fetcher.
func NewCurator(userState store.UserState, fetcher Fetcher, opts Options) *Curator {
	if opts.TargetCount <= 0 {
		opts.TargetCount = 5
	}
	if opts.MinGuaranteed <= 0 {
		opts.MinGuaranteed = 3
	}
	return &Curator{
		store:     userState,
		fetcher:   fetcher,
		tracker:   freshness.NewTracker(userState),
		assembler: curation.NewAssembler(opts.Rand, opts.MinGuaranteed, opts.QualityCutoff),
		target:    opts.TargetCount,
		now:       time.Now,
	}
}

// BuildDigest runs the full pipeline for one user and records the delivered
// articles as shown. Repeated calls never return previously delivered items.
func (c *Curator) BuildDigest(ctx context.Context, userID string, profile core.UserProfile) []core.Article {
	release := c.store.Acquire(userID)
	defer release()

	candidates := c.fetcher.Candidates(ctx)
	categorize.Ensure(candidates)
	candidates = curation.Dedupe(candidates)
	unseen := c.tracker.FilterUnseen(userID, candidates)

	now := c.now()
	var guaranteed []core.Article
	var scored []curation.Scored
	for _, article := range unseen {
		if taxonomy.BaselineCategories[article.Category] {
			guaranteed = append(guaranteed, article)
		}
		if relevance.IsRelevant(article.Title, profile.PrimaryRole, profile.SecondaryInterests) {
			scored = append(scored, curation.Scored{
				Article: article,
				Score:   relevance.Score(article, profile, now),
			})
		}
	}

	articles := c.assembler.Assemble(profile, scored, guaranteed, c.target)
	if len(articles) == 0 {
		logger.Warn("Digest came up empty", "user_id", userID, "candidates", len(candidates), "unseen", len(unseen))
		return nil
	}

	c.tracker.RecordShown(userID, articles)
	c.store.SaveRecentArticles(userID, articles)

	logger.Info("Digest built", "digest_id", uuid.NewString(), "user_id", userID,
		"candidates", len(candidates), "unseen", len(unseen), "delivered", len(articles))
	return articles
}

// ResolveReference maps a conversational message onto a recently shown
// article. A nil reference means the caller should disambiguate using the
// returned candidate list.
func (c *Curator) ResolveReference(userID, message string) (*core.ResolvedReference, []core.Article) {
	recent := c.store.RecentArticles(userID)

	var convCtx *core.ConversationContext
	if stored, ok := c.store.Context(userID); ok {
		if c.now().Sub(stored.Timestamp) <= contextMaxAge {
			convCtx = &stored
		}
	}

	return conversation.Resolve(message, recent, convCtx), recent
}

// RecordExchange persists conversation context after a response was produced.
// The previous search record carries forward so later messages can still
// target its results.
func (c *Curator) RecordExchange(userID, message string, article core.Article, topic core.Topic, responseTrace string) {
	release := c.store.Acquire(userID)
	defer release()

	ctx := core.ConversationContext{
		LastArticleDiscussed: article.Title,
		LastConversation:     responseTrace,
		LastUserMessage:      message,
		Topic:                topic,
		Timestamp:            c.now(),
	}
	if previous, ok := c.store.Context(userID); ok {
		ctx.LastSearch = previous.LastSearch
	}
	c.store.SaveContext(userID, ctx)
}

// SearchAndRemember stores a conversational search: its results are
// remembered as the latest search and prepended to the recent article list so
// "read this" can target them.
func (c *Curator) SearchAndRemember(userID, query string, results []search.Result) []core.Article {
	release := c.store.Acquire(userID)
	defer release()

	articles := search.ResultsToArticles(results)

	recent := append(append([]core.Article{}, articles...), c.store.RecentArticles(userID)...)
	if len(recent) > recentCap {
		recent = recent[:recentCap]
	}
	c.store.SaveRecentArticles(userID, recent)

	ctx, _ := c.store.Context(userID)
	ctx.LastSearch = &core.SearchRecord{
		Query:     query,
		Results:   articles,
		Timestamp: c.now(),
	}
	ctx.LastUserMessage = query
	ctx.Topic = core.TopicWebSearch
	ctx.Timestamp = c.now()
	c.store.SaveContext(userID, ctx)

	return articles
}

// ResetUser clears the user's freshness set, remembered articles, and
// conversation context. The profile is managed separately.
func (c *Curator) ResetUser(userID string) {
	release := c.store.Acquire(userID)
	defer release()

	c.tracker.Clear(userID)
	c.store.SaveRecentArticles(userID, nil)
	c.store.ClearContext(userID)
	logger.Info("User state reset", "user_id", userID)
}

// PurgeStaleContexts drops conversation contexts older than 24 hours.
func (c *Curator) PurgeStaleContexts() int {
	return c.store.PurgeStaleContexts(contextMaxAge)
}
