package curation

import (
	"reflect"
	"testing"

	"pulsebot/internal/core"
)

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	articles := []core.Article{
		{Title: "GPT-5 Released", Source: "HN"},
		{Title: "  gpt-5 released ", Source: "Reddit"},
		{Title: "Figma Ships Variables", Source: "Figma Blog"},
	}

	out := Dedupe(articles)
	if len(out) != 2 {
		t.Fatalf("expected 2 articles after dedupe, got %d", len(out))
	}
	if out[0].Source != "HN" {
		t.Errorf("expected first occurrence to win, got source %q", out[0].Source)
	}
	if out[1].Title != "Figma Ships Variables" {
		t.Errorf("expected order to be stable, got %q", out[1].Title)
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	articles := []core.Article{
		{Title: "A story"},
		{Title: "a STORY"},
		{Title: "Another story"},
		{Title: "Another story"},
	}

	once := Dedupe(articles)
	twice := Dedupe(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe is not idempotent: %v vs %v", once, twice)
	}
	if len(once) > len(articles) {
		t.Errorf("dedupe grew the input: %d > %d", len(once), len(articles))
	}
}

func TestDedupeKeepsDistinctTitles(t *testing.T) {
	// Exact-after-normalization only: near-duplicates stay distinct.
	articles := []core.Article{
		{Title: "OpenAI releases GPT-5"},
		{Title: "OpenAI releases GPT-5 model"},
	}
	if out := Dedupe(articles); len(out) != 2 {
		t.Errorf("near-duplicate titles should remain distinct, got %d", len(out))
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Errorf("expected empty output for nil input, got %d", len(out))
	}
}
