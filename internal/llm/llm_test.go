package llm

import (
	"testing"

	"pulsebot/internal/core"
)

func TestParseProfileJSON(t *testing.T) {
	raw := "Here is the profile you asked for:\n```json\n" + `{
		"primary_role": "Design",
		"secondary_interests": ["Figma", " typography ", ""],
		"industry": "fintech",
		"experience_level": "senior",
		"company_stage": "scale-up",
		"specific_technologies": ["figma", "framer"],
		"content_preferences": "trends",
		"summary": "Senior product designer at a fintech scale-up."
	}` + "\n```\nLet me know if you need anything else."

	profile, err := ParseProfileJSON(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if profile.PrimaryRole != core.CategoryDesign {
		t.Errorf("expected design role, got %q", profile.PrimaryRole)
	}
	if len(profile.SecondaryInterests) != 2 {
		t.Fatalf("expected empty interests dropped, got %v", profile.SecondaryInterests)
	}
	if profile.SecondaryInterests[0] != "figma" || profile.SecondaryInterests[1] != "typography" {
		t.Errorf("expected interests lower-cased and trimmed, got %v", profile.SecondaryInterests)
	}
	if profile.Industry != "fintech" || profile.ExperienceLevel != "senior" {
		t.Errorf("descriptive fields did not survive: %+v", profile)
	}
}

func TestParseProfileJSONUnknownRoleDefaultsToGeneral(t *testing.T) {
	profile, err := ParseProfileJSON(`{"primary_role": "astronaut"}`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if profile.PrimaryRole != core.CategoryGeneral {
		t.Errorf("expected unknown role to map to general, got %q", profile.PrimaryRole)
	}
}

func TestParseProfileJSONErrors(t *testing.T) {
	if _, err := ParseProfileJSON("the model refused to answer"); err == nil {
		t.Error("expected an error when no JSON object is present")
	}
	if _, err := ParseProfileJSON(`{"primary_role": }`); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := ParseProfileJSON(`{"secondary_interests": ["go"]}`); err == nil {
		t.Error("expected an error when primary_role is missing")
	}
}

func TestFallbackProfile(t *testing.T) {
	profile := FallbackProfile()
	if profile.PrimaryRole != core.CategoryEngineering {
		t.Errorf("expected engineering fallback role, got %q", profile.PrimaryRole)
	}
	if profile.Summary == "" {
		t.Error("expected a non-empty fallback summary")
	}
}
