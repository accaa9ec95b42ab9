package fetch

import (
	"time"

	"pulsebot/internal/core"
)

// Fallback returns the hard-coded sample pool used when every live source
// comes back empty. Publication times are set relative to now so the samples
// still rank under recency scoring.
func Fallback() []core.Article {
	published := time.Now().UTC().Add(-6 * time.Hour)
	return []core.Article{
		{
			Title:     "OpenAI Releases GPT-5 with Breakthrough Reasoning Capabilities",
			Link:      "https://techcrunch.com/gpt5-release",
			Summary:   "OpenAI's latest model shows significant improvements in mathematical reasoning and code generation, potentially transforming how developers work with AI...",
			Published: published,
			Source:    "TechCrunch",
			Category:  core.CategoryAIML,
		},
		{
			Title:     "Meta's New React Compiler Reduces Bundle Sizes by 40%",
			Link:      "https://react.dev/compiler-announcement",
			Summary:   "The experimental React compiler automatically optimizes components, eliminating the need for manual memoization in most cases...",
			Published: published,
			Source:    "React Blog",
			Category:  core.CategoryEngineering,
		},
		{
			Title:     "Y Combinator Demo Day: AI Startups Dominate S25 Batch",
			Link:      "https://techcrunch.com/yc-demo-day-2025",
			Summary:   "Over 60% of Y Combinator's summer 2025 batch focuses on AI applications, with notable companies in healthcare, developer tools, and robotics...",
			Published: published,
			Source:    "TechCrunch",
			Category:  core.CategoryBusiness,
		},
		{
			Title:     "Figma Introduces AI-Powered Design System Generator",
			Link:      "https://figma.com/ai-design-systems",
			Summary:   "Designers can now generate comprehensive design systems from simple prompts, including components, tokens, and documentation...",
			Published: published,
			Source:    "Figma Blog",
			Category:  core.CategoryDesign,
		},
		{
			Title:     "Stripe Launches Embedded Financial Services for SaaS",
			Link:      "https://stripe.com/embedded-finance",
			Summary:   "SaaS companies can now offer banking, lending, and payment services directly to their customers through Stripe's new platform...",
			Published: published,
			Source:    "Stripe Blog",
			Category:  core.CategoryProduct,
		},
	}
}
