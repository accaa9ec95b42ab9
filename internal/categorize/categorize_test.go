package categorize

import (
	"testing"

	"pulsebot/internal/core"
)

func TestCategorizeDesignPhraseWinsOverCollisions(t *testing.T) {
	// Titles carrying a design-specific phrase must classify as design even
	// when AI or engineering keywords appear in the same title.
	titles := []string{
		"Figma Introduces AI-Powered Design System Generator",
		"How We Built Our Design System with React and TypeScript",
		"User Experience Lessons from Kubernetes Dashboards",
	}

	for _, title := range titles {
		if got := Categorize(title); got != core.CategoryDesign {
			t.Errorf("Categorize(%q) = %q, want %q", title, got, core.CategoryDesign)
		}
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	cases := []struct {
		title string
		want  core.Category
	}{
		{"OpenAI Releases GPT-5 with Breakthrough Reasoning", core.CategoryAIML},
		{"Meta's New React Compiler Reduces Bundle Sizes by 40%", core.CategoryEngineering},
		{"Stripe Launches Embedded Financial Services Roadmap", core.CategoryProduct},
		{"Y Combinator Demo Day: Startups Dominate S25 Batch", core.CategoryBusiness},
		{"The State of Cloud Platforms in 2025", core.CategoryTechGeneral},
	}

	for _, tc := range cases {
		if got := Categorize(tc.title); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestCategorizeFallsThroughToGeneral(t *testing.T) {
	for _, title := range []string{"", "Hello", "Quarterly town hall notes"} {
		if got := Categorize(title); got != core.CategoryGeneral {
			t.Errorf("Categorize(%q) = %q, want %q", title, got, core.CategoryGeneral)
		}
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	title := "Machine Learning Infrastructure at Scale"
	first := Categorize(title)
	for i := 0; i < 10; i++ {
		if got := Categorize(title); got != first {
			t.Fatalf("Categorize is not deterministic: got %q then %q", first, got)
		}
	}
}

func TestEnsureOnlyFillsMissingCategories(t *testing.T) {
	articles := []core.Article{
		{Title: "Figma Design Tokens Update"},
		{Title: "Figma Design Tokens Update", Category: core.CategorySearchResult},
	}

	out := Ensure(articles)
	if out[0].Category != core.CategoryDesign {
		t.Errorf("expected unclassified article to become design, got %q", out[0].Category)
	}
	if out[1].Category != core.CategorySearchResult {
		t.Errorf("expected preset category to be preserved, got %q", out[1].Category)
	}
}
