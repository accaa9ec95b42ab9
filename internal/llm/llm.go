// Package llm wraps the Gemini client for profile derivation, digest
// summaries, and conversational answers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"pulsebot/internal/core"
)

const (
	// DefaultModel is the default Gemini model for all generation calls.
	DefaultModel = "gemini-flash-lite-latest"

	profilePromptTemplate = `Analyze this user's description and create a structured profile for personalized news curation.

User description: "%s"

Return only a JSON object with:
{
  "primary_role": "main job role (engineering/design/product/business/ai_ml/tech_general)",
  "secondary_interests": ["list", "of", "secondary", "interests"],
  "industry": "industry they work in",
  "experience_level": "junior/mid/senior",
  "company_stage": "startup/scale-up/enterprise",
  "specific_technologies": ["technologies", "they", "mentioned"],
  "content_preferences": "technical/business/news/trends",
  "summary": "2-sentence summary of their profile"
}

Be specific and infer details from context. If unclear, make reasonable assumptions.`

	digestSummaryPromptTemplate = `Write a one-paragraph morning digest introduction for a %s. Mention the themes across these headlines without repeating them verbatim:

%s`

	answerPromptTemplate = `You are a news assistant in a Slack workspace. The user is asking about this article:

Title: %s
Source: %s
Summary: %s

Conversation focus: %s

User message: %s

Answer conversationally in a few sentences. If the article summary does not contain the answer, say what you know and be explicit about what you don't.`
)

// Client represents a client for interacting with Gemini.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
}

// NewClient creates a new LLM client. The API key is read from
// GEMINI_API_KEY or the ai.gemini.api_key config entry.
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = viper.GetString("ai.gemini.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or ai.gemini.api_key")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	gClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// generateContent wraps the SDK's GenerateContent call.
func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// DeriveProfile turns onboarding free text into a structured profile. A
// generation or parse failure returns the fallback profile rather than an
// error, so onboarding always completes.
func (c *Client) DeriveProfile(ctx context.Context, description string) core.UserProfile {
	raw, err := c.generateContent(ctx, fmt.Sprintf(profilePromptTemplate, description))
	if err != nil {
		return FallbackProfile()
	}
	profile, err := ParseProfileJSON(raw)
	if err != nil {
		return FallbackProfile()
	}
	return profile
}

// SummarizeDigest writes a short introduction paragraph for a digest.
func (c *Client) SummarizeDigest(ctx context.Context, profile core.UserProfile, articles []core.Article) (string, error) {
	role := string(profile.PrimaryRole)
	if role == "" {
		role = "tech professional"
	}
	titles := make([]string, 0, len(articles))
	for _, article := range articles {
		titles = append(titles, "- "+article.Title)
	}
	return c.generateContent(ctx, fmt.Sprintf(digestSummaryPromptTemplate, role, strings.Join(titles, "\n")))
}

// Answer responds to a conversational question about a resolved article.
func (c *Client) Answer(ctx context.Context, article core.Article, topic core.Topic, message string) (string, error) {
	prompt := fmt.Sprintf(answerPromptTemplate,
		article.Title, article.Source, article.Summary, string(topic), message)
	return c.generateContent(ctx, prompt)
}

// SummarizeText condenses extracted full-article text for the
// read-the-article flow.
func (c *Client) SummarizeText(ctx context.Context, title, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize this article titled %q in 3-5 sentences for a busy reader:\n\n---\n%s\n---", title, text)
	return c.generateContent(ctx, prompt)
}

// profileJSON mirrors the JSON shape the model is asked to return.
type profileJSON struct {
	PrimaryRole          string   `json:"primary_role"`
	SecondaryInterests   []string `json:"secondary_interests"`
	Industry             string   `json:"industry"`
	ExperienceLevel      string   `json:"experience_level"`
	CompanyStage         string   `json:"company_stage"`
	SpecificTechnologies []string `json:"specific_technologies"`
	ContentPreferences   string   `json:"content_preferences"`
	Summary              string   `json:"summary"`
}

// ParseProfileJSON extracts the JSON object from a model response, tolerating
// surrounding prose and code fences.
func ParseProfileJSON(raw string) (core.UserProfile, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return core.UserProfile{}, fmt.Errorf("no JSON object in model response")
	}

	var decoded profileJSON
	if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to decode profile JSON: %w", err)
	}
	if decoded.PrimaryRole == "" {
		return core.UserProfile{}, fmt.Errorf("profile JSON missing primary_role")
	}

	interests := make([]string, 0, len(decoded.SecondaryInterests))
	for _, interest := range decoded.SecondaryInterests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest != "" {
			interests = append(interests, interest)
		}
	}

	return core.UserProfile{
		PrimaryRole:          core.ParseCategory(decoded.PrimaryRole),
		SecondaryInterests:   interests,
		Industry:             decoded.Industry,
		ExperienceLevel:      decoded.ExperienceLevel,
		CompanyStage:         decoded.CompanyStage,
		SpecificTechnologies: decoded.SpecificTechnologies,
		ContentPreferences:   decoded.ContentPreferences,
		Summary:              decoded.Summary,
	}, nil
}

// FallbackProfile is used when profile derivation fails.
func FallbackProfile() core.UserProfile {
	return core.UserProfile{
		PrimaryRole:        core.CategoryEngineering,
		SecondaryInterests: []string{},
		Industry:           "technology",
		ExperienceLevel:    "mid",
		CompanyStage:       "startup",
		ContentPreferences: "technical",
		Summary:            "General tech professional",
	}
}
