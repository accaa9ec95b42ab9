// Package taxonomy is the single authoritative keyword table consumed by the
// categorizer, relevance filter, and relevance scorer. Keeping the lists in
// one place guarantees the three components never disagree about what counts
// as relevant for a given role.
package taxonomy

import (
	"strings"

	"pulsebot/internal/core"
)

// Version identifies the keyword-table revision. Bump when any list changes
// so scoring differences across deployments can be traced to taxonomy drift.
const Version = 2

// DesignPhrases are multi-word, design-specific phrases. They take priority
// over every other category during classification.
var DesignPhrases = []string{
	"design system",
	"design systems",
	"user experience",
	"user interface",
	"ux design",
	"ui design",
	"product design",
	"design thinking",
	"design tokens",
	"interaction design",
	"visual design",
	"design process",
	"usability testing",
	"auto layout",
	"design tool",
}

// AIMLTerms identify AI/ML articles. Short tokens like "ai" are padded with
// whitespace to avoid matching inside unrelated words ("email", "domain").
var AIMLTerms = []string{
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"generative ai",
	"neural",
	"llm",
	"gpt",
	"openai",
	"anthropic",
	"chatgpt",
	"gemini",
	"ai model",
	" ai ",
}

// EngineeringTerms identify software engineering articles.
var EngineeringTerms = []string{
	"kubernetes",
	"docker",
	"backend",
	"database",
	"compiler",
	"framework",
	"programming",
	"javascript",
	"typescript",
	"python",
	"golang",
	"rust",
	"devops",
	"microservice",
	"open source",
	"github",
	"sdk",
	"api",
	"infrastructure",
}

// ProductTerms identify product-management articles.
var ProductTerms = []string{
	"product manag",
	"roadmap",
	"feature launch",
	"user research",
	"a/b test",
	"onboarding",
	"product hunt",
	"product-market",
	"mvp",
}

// BusinessTerms identify startup/business articles.
var BusinessTerms = []string{
	"startup",
	"funding",
	"acquisition",
	"acquires",
	"venture",
	"revenue",
	"layoff",
	"merger",
	"valuation",
	"series a",
	"series b",
	"y combinator",
	"ipo",
}

// TechGeneralTerms are broad technology markers used as the lowest-priority
// classification group before the general fallback.
var TechGeneralTerms = []string{
	"software",
	"platform",
	"cloud",
	"security",
	"mobile",
	"tech",
	"app",
	"data",
	"web",
}

// DesignCoreTerms are single-word design markers. Each distinct match earns
// the largest design scoring bonus.
var DesignCoreTerms = []string{
	"design",
	"designer",
	"ux",
	"ui",
	"usability",
	"accessibility",
	"wireframe",
	"prototype",
	"typography",
	"branding",
}

// DesignTools are named design products.
var DesignTools = []string{
	"figma",
	"sketch",
	"adobe xd",
	"framer",
	"invision",
	"zeplin",
	"canva",
	"photoshop",
	"illustrator",
	"miro",
}

// DesignProcessTerms describe design practice and methodology.
var DesignProcessTerms = []string{
	"user research",
	"usability testing",
	"design review",
	"design critique",
	"journey map",
	"persona",
	"heuristic",
	"information architecture",
}

// DesignTrendTerms describe current design trends.
var DesignTrendTerms = []string{
	"dark mode",
	"glassmorphism",
	"neumorphism",
	"microinteraction",
	"design trend",
	"minimalism",
	"motion design",
	"3d design",
}

// FrontendTerms are component/library terms that only count as design-relevant
// when design context co-occurs in the same text.
var FrontendTerms = []string{
	"component library",
	"component",
	"storybook",
	"tailwind",
	"css",
	"react",
	"animation",
	"responsive",
}

// NonDesignTechTerms are clearly non-design technical terms. Their presence
// penalizes design scoring and blocks design-filter admission unless design
// context co-occurs.
var NonDesignTechTerms = []string{
	"kubernetes",
	"database",
	"backend",
	"devops",
	"compiler",
	"kernel",
	"blockchain",
	"cryptocurrency",
	"server",
	"terminal",
}

// CreativeTerms are the broad creative/visual vocabulary admitted by the
// design relevance filter.
var CreativeTerms = []string{
	"creative",
	"visual",
	"aesthetic",
	"illustration",
	"color",
	"palette",
	"portfolio",
	"art direction",
}

// DesignSourceTerms earn the design source-name bonus when found in an
// article's source label.
var DesignSourceTerms = []string{
	"design",
	"ux",
	"dribbble",
	"smashing",
	"creative",
}

// GenericTechTerms admit articles for non-design roles whose title matches
// neither role keywords nor interests.
var GenericTechTerms = []string{
	"launch",
	"innovation",
	"technology",
	"breakthrough",
	"future",
}

// RoleTerms maps each non-design role onto its admission keyword list.
var RoleTerms = map[core.Category][]string{
	core.CategoryEngineering: EngineeringTerms,
	core.CategoryAIML:        AIMLTerms,
	core.CategoryProduct:     ProductTerms,
	core.CategoryBusiness:    BusinessTerms,
	core.CategoryTechGeneral: TechGeneralTerms,
	core.CategoryGeneral:     TechGeneralTerms,
}

// FollowUpCues are phrases signalling the message continues the previous
// exchange rather than referencing a new article.
var FollowUpCues = []string{
	"tell me more",
	"dive deeper",
	"go deeper",
	"more about that",
	"more details",
	"more on this",
	"expand on",
	"elaborate",
	"what about it",
	"keep going",
}

// FollowUpPronouns are single-token follow-up signals, matched against
// whole message tokens rather than substrings.
var FollowUpPronouns = map[string]bool{
	"it":   true,
	"that": true,
	"this": true,
	"more": true,
}

// SearchResultPhrases signal the message refers to the most recent
// conversational web search rather than the digest.
var SearchResultPhrases = []string{
	"read this",
	"search result",
	"that result",
	"those results",
	"the results",
	"first result",
	"from the search",
	"from that search",
}

// Stopwords are excluded from keyword-overlap resolution.
var Stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true, "this": true, "but": true, "they": true,
	"have": true, "had": true, "what": true, "which": true, "she": true,
	"about": true, "tell": true, "more": true, "article": true, "news": true,
	"story": true, "read": true, "please": true, "show": true, "me": true,
	"you": true, "your": true, "like": true, "into": true, "there": true,
	"their": true, "would": true, "could": true, "some": true, "them": true,
}

// TopicArticleKeywords maps a topic cue found in a message onto the article
// vocabulary that identifies the story being asked about. Used by the
// resolver's table lookup before generic keyword-overlap scoring.
var TopicArticleKeywords = map[string][]string{
	"acquisition": {"acquisition", "acquires", "acquired", "buys", "bought", "merger"},
	"funding":     {"funding", "raises", "raised", "series", "valuation"},
	"layoffs":     {"layoff", "layoffs", "cuts", "restructuring"},
	"launch":      {"launch", "launches", "releases", "announces", "introduces", "unveils"},
	"redesign":    {"redesign", "rebrand", "refresh", "new look"},
	"security":    {"security", "breach", "vulnerability", "hack", "exploit"},
}

// TopicArticleCues fixes the lookup order over TopicArticleKeywords so
// resolution does not depend on map iteration order.
var TopicArticleCues = []string{
	"acquisition",
	"funding",
	"layoffs",
	"launch",
	"redesign",
	"security",
}

// TopicCues maps message vocabulary onto conversation topics for classifying
// what an exchange was about.
var TopicCues = map[core.Topic][]string{
	core.TopicAcquisitionDetails: {"acquisition", "acquire", "bought", "merger", "deal terms"},
	core.TopicDesignProcess:      {"design process", "how they designed", "design decision", "workflow"},
	core.TopicTechnicalDetails:   {"how does it work", "technical", "architecture", "implementation", "under the hood"},
	core.TopicIndustryImpact:     {"impact", "industry", "market", "competitors", "affect"},
	core.TopicAnalysisOpinion:    {"what do you think", "opinion", "analysis", "your take", "thoughts"},
	core.TopicFutureImplications: {"future", "implication", "what's next", "long term", "predict"},
	core.TopicFullArticleSummary: {"read this", "full article", "read the article", "whole article", "entire article"},
	core.TopicWebSearch:          {"search for", "look up", "find news", "search the web"},
}

// TopicOrder fixes the classification order over TopicCues. Specific intents
// (full-article read, web search) come before the broad discussion topics.
var TopicOrder = []core.Topic{
	core.TopicFullArticleSummary,
	core.TopicWebSearch,
	core.TopicAcquisitionDetails,
	core.TopicDesignProcess,
	core.TopicTechnicalDetails,
	core.TopicIndustryImpact,
	core.TopicAnalysisOpinion,
	core.TopicFutureImplications,
}

// BaselineCategories are the categories eligible for the guaranteed digest
// floor. The floor is profile-independent so a narrow profile in a
// mismatched feed still receives a baseline of tech coverage.
var BaselineCategories = map[core.Category]bool{
	core.CategoryEngineering: true,
	core.CategoryDesign:      true,
	core.CategoryProduct:     true,
	core.CategoryBusiness:    true,
	core.CategoryAIML:        true,
	core.CategoryTechGeneral: true,
}

// SubredditCategories maps candidate subreddits onto article categories.
// This is the authoritative table; the broader variant including design
// subreddits was chosen deliberately.
var SubredditCategories = map[string]core.Category{
	"programming":        core.CategoryEngineering,
	"webdev":             core.CategoryEngineering,
	"machinelearning":    core.CategoryAIML,
	"artificial":         core.CategoryAIML,
	"startups":           core.CategoryBusiness,
	"entrepreneur":       core.CategoryBusiness,
	"product_management": core.CategoryProduct,
	"design":             core.CategoryDesign,
	"userexperience":     core.CategoryDesign,
	"web_design":         core.CategoryDesign,
	"technology":         core.CategoryTechGeneral,
}

// ContainsAny reports whether lower-cased text contains any of the terms.
// Text is padded with spaces so whitespace-guarded terms can match at the
// boundaries.
func ContainsAny(text string, terms []string) bool {
	padded := " " + strings.ToLower(text) + " "
	for _, term := range terms {
		if strings.Contains(padded, term) {
			return true
		}
	}
	return false
}

// MatchingTerms returns the distinct terms found in lower-cased text.
func MatchingTerms(text string, terms []string) []string {
	padded := " " + strings.ToLower(text) + " "
	var matched []string
	for _, term := range terms {
		if strings.Contains(padded, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// HasDesignContext reports whether the text carries any design signal at all.
// Used to gate frontend/component terms and to soften the non-design penalty.
func HasDesignContext(text string) bool {
	return ContainsAny(text, DesignPhrases) ||
		ContainsAny(text, DesignCoreTerms) ||
		ContainsAny(text, DesignTools) ||
		ContainsAny(text, CreativeTerms)
}
