// Package messaging formats digests and conversational replies as Slack
// Block Kit messages and posts them through the Web API.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pulsebot/internal/core"
	"pulsebot/internal/logger"
)

// SlackMessage represents a Slack message structure.
type SlackMessage struct {
	Text    string       `json:"text,omitempty"`
	Blocks  []SlackBlock `json:"blocks,omitempty"`
	Channel string       `json:"channel,omitempty"`
}

// SlackBlock represents a Slack block kit element.
type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

// SlackText represents text in Slack blocks.
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// categoryEmoji labels each article category in digest messages.
var categoryEmoji = map[core.Category]string{
	core.CategoryEngineering:  "⚙️",
	core.CategoryDesign:       "🎨",
	core.CategoryProduct:      "📱",
	core.CategoryBusiness:     "💼",
	core.CategoryAIML:         "🤖",
	core.CategoryTechGeneral:  "💻",
	core.CategorySearchResult: "🔍",
}

func emojiFor(category core.Category) string {
	if emoji, ok := categoryEmoji[category]; ok {
		return emoji
	}
	return "📰"
}

func header(text string) SlackBlock {
	return SlackBlock{Type: "header", Text: &SlackText{Type: "plain_text", Text: text}}
}

func section(markdown string) SlackBlock {
	return SlackBlock{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: markdown}}
}

func contextBlock(markdown string) SlackBlock {
	return SlackBlock{Type: "context", Elements: []SlackText{{Type: "mrkdwn", Text: markdown}}}
}

func divider() SlackBlock {
	return SlackBlock{Type: "divider"}
}

// FormatDigest renders a delivered digest. Articles are numbered so replies
// like "article 2" line up with what the user sees.
func FormatDigest(profile core.UserProfile, articles []core.Article, intro string, now time.Time) SlackMessage {
	role := string(profile.PrimaryRole)
	if role == "" {
		role = "professional"
	}

	blocks := []SlackBlock{
		header("🌅 Your Personalized Digest - " + now.Format("January 2, 2006")),
		contextBlock(fmt.Sprintf("Curated for: %s | %d articles", titleCase(role), len(articles))),
	}
	if intro != "" {
		blocks = append(blocks, section(intro))
	}
	blocks = append(blocks, divider())

	for i, article := range articles {
		line := fmt.Sprintf("*%d.* %s <%s|%s>", i+1, emojiFor(article.Category), article.Link, article.Title)
		if article.Summary != "" {
			line += "\n" + truncate(article.Summary, 220)
		}
		blocks = append(blocks, section(line))
	}

	blocks = append(blocks, contextBlock("Ask me about any of these, e.g. _\"tell me more about article 2\"_"))

	return SlackMessage{
		Text:   "Your personalized digest is ready",
		Blocks: blocks,
	}
}

// FormatOnboardingPrompt asks a new user to describe themselves.
func FormatOnboardingPrompt() SlackMessage {
	return SlackMessage{
		Text: "👋 Welcome! I need to learn about you first to create personalized digests. " +
			"Tell me about your role, what you work on, and what topics you care about.",
	}
}

// FormatProfileConfirmation summarizes a freshly derived profile.
func FormatProfileConfirmation(profile core.UserProfile) SlackMessage {
	text := fmt.Sprintf("*Here's what I learned about you:*\n"+
		"• *Role:* %s\n"+
		"• *Industry:* %s\n"+
		"• *Experience:* %s\n"+
		"• *Interests:* %s\n\n_%s_",
		orNA(string(profile.PrimaryRole)),
		orNA(profile.Industry),
		orNA(profile.ExperienceLevel),
		orNA(strings.Join(profile.SecondaryInterests, ", ")),
		profile.Summary)

	return SlackMessage{
		Text: "Profile created",
		Blocks: []SlackBlock{
			section(text),
			contextBlock("🚀 You're all set! Try `/digest` to see your first personalized digest."),
		},
	}
}

// FormatDisambiguation lists the current candidates when a reference could
// not be resolved.
func FormatDisambiguation(recent []core.Article) SlackMessage {
	if len(recent) == 0 {
		return SlackMessage{Text: "I couldn't find that article. Try `/digest` to get a fresh set of stories first."}
	}

	var b strings.Builder
	b.WriteString("I couldn't tell which article you mean. Here's what I've shown you recently:\n")
	for i, article := range recent {
		fmt.Fprintf(&b, "*%d.* %s %s\n", i+1, emojiFor(article.Category), article.Title)
	}
	b.WriteString("\nReply with a number, e.g. _\"article 2\"_.")

	return SlackMessage{Text: "Which article do you mean?", Blocks: []SlackBlock{section(b.String())}}
}

// FormatSearchResults lists conversational search results. Numbering
// continues from 1 so "read the first result" style replies line up.
func FormatSearchResults(query string, results []core.Article) SlackMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Here's what I found for *%s*:\n", query)
	for i, article := range results {
		fmt.Fprintf(&b, "*%d.* <%s|%s>", i+1, article.Link, article.Title)
		if article.Summary != "" {
			b.WriteString("\n" + truncate(article.Summary, 160))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nSay _\"read this\"_ or pick a result to dig in.")

	return SlackMessage{Text: "Search results for " + query, Blocks: []SlackBlock{section(b.String())}}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

const defaultSlackAPIBaseURL = "https://slack.com/api"

// Client posts messages through the Slack Web API.
type Client struct {
	baseURL  string
	botToken string
	client   *http.Client
}

// NewClient creates a Slack client. An empty baseURL uses slack.com.
func NewClient(botToken string) *Client {
	return &Client{
		baseURL:  defaultSlackAPIBaseURL,
		botToken: botToken,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// PostMessage sends a message to a channel or DM via chat.postMessage.
func (c *Client) PostMessage(ctx context.Context, channel string, message SlackMessage) error {
	message.Channel = channel

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !apiResponse.OK {
		return fmt.Errorf("slack API error: %s", apiResponse.Error)
	}

	logger.Debug("Posted slack message", "channel", channel)
	return nil
}
