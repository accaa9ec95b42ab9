// Package core defines the shared data model for article curation and
// conversation tracking.
package core

import (
	"strings"
	"time"
)

// Category is a closed set of topic labels assigned to every article.
type Category string

const (
	CategoryEngineering  Category = "engineering"
	CategoryDesign       Category = "design"
	CategoryProduct      Category = "product"
	CategoryBusiness     Category = "business"
	CategoryAIML         Category = "ai_ml"
	CategoryTechGeneral  Category = "tech_general"
	CategoryGeneral      Category = "general"
	CategorySearchResult Category = "search_result"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryEngineering,
	CategoryDesign,
	CategoryProduct,
	CategoryBusiness,
	CategoryAIML,
	CategoryTechGeneral,
	CategoryGeneral,
	CategorySearchResult,
}

// ParseCategory converts a raw string into a Category. Unknown or empty
// values map to CategoryGeneral rather than propagating arbitrary strings.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return CategoryGeneral
}

// Article represents a candidate or finalized digest article.
type Article struct {
	Title           string    `json:"title"`
	Link            string    `json:"link"`
	Summary         string    `json:"summary"`
	Published       time.Time `json:"published"`        // zero value if missing/unparseable
	Source          string    `json:"source"`           // human-readable origin label
	Category        Category  `json:"category"`         // always set before scoring
	PopularityScore int       `json:"popularity_score"` // upstream engagement signal, 0 = unknown
	IsGuaranteed    bool      `json:"is_guaranteed"`    // placed to satisfy a minimum-category quota
}

// Key returns the composite identifier used by the freshness tracker.
func (a Article) Key() string {
	return a.Title + ":" + a.Source
}

// UserProfile is a user's declared role and interests, derived once from
// onboarding free text and replaced wholesale on preference updates.
type UserProfile struct {
	PrimaryRole          Category `json:"primary_role"`
	SecondaryInterests   []string `json:"secondary_interests"` // lower-cased for matching
	ExperienceLevel      string   `json:"experience_level"`
	Industry             string   `json:"industry"`
	CompanyStage         string   `json:"company_stage"`
	SpecificTechnologies []string `json:"specific_technologies"`
	ContentPreferences   string   `json:"content_preferences"`
	Summary              string   `json:"summary"`
}

// Topic classifies what a conversational exchange was about.
type Topic string

const (
	TopicAcquisitionDetails Topic = "acquisition-details"
	TopicDesignProcess      Topic = "design-process"
	TopicTechnicalDetails   Topic = "technical-details"
	TopicIndustryImpact     Topic = "industry-impact"
	TopicAnalysisOpinion    Topic = "analysis-opinion"
	TopicFutureImplications Topic = "future-implications"
	TopicGeneralDiscussion  Topic = "general-discussion"
	TopicFullArticleSummary Topic = "full-article-summary"
	TopicWebSearch          Topic = "web-search"
	TopicGeneralAssistance  Topic = "general-assistance"
)

// SearchRecord remembers the most recent conversational web search.
type SearchRecord struct {
	Query     string    `json:"query"`
	Results   []Article `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext is the per-user memory of the most recent exchange.
// It is overwritten, never appended, and purged after 24 hours.
type ConversationContext struct {
	LastArticleDiscussed string        `json:"last_article_discussed"`
	LastSearch           *SearchRecord `json:"last_search,omitempty"`
	LastConversation     string        `json:"last_conversation"`
	LastUserMessage      string        `json:"last_user_message"`
	Topic                Topic         `json:"conversation_topic"`
	Timestamp            time.Time     `json:"timestamp"`
}

// ResolutionStrategy names the strategy that resolved a reference.
type ResolutionStrategy string

const (
	StrategyExplicitIndex  ResolutionStrategy = "explicit_index"
	StrategySearchResult   ResolutionStrategy = "search_result"
	StrategyTopicKeyword   ResolutionStrategy = "topic_keyword"
	StrategyKeywordOverlap ResolutionStrategy = "keyword_overlap"
	StrategyFollowUp       ResolutionStrategy = "follow_up"
)

// ResolvedReference is the outcome of mapping a free-text message onto a
// previously-shown article.
type ResolvedReference struct {
	Article  Article            `json:"article"`
	Strategy ResolutionStrategy `json:"strategy"`
}
