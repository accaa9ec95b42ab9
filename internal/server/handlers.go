package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pulsebot/internal/conversation"
	"pulsebot/internal/core"
	"pulsebot/internal/fetch"
	"pulsebot/internal/logger"
	"pulsebot/internal/messaging"
	"pulsebot/internal/search"
)

// eventPayload is the Slack Events API envelope.
type eventPayload struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		Subtype string `json:"subtype"`
		User    string `json:"user"`
		BotID   string `json:"bot_id"`
		Text    string `json:"text"`
		Channel string `json:"channel"`
	} `json:"event"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handleSlackEvents acknowledges immediately and processes message events in
// the background.
func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	switch payload.Type {
	case "url_verification":
		respondJSON(w, http.StatusOK, map[string]string{"challenge": payload.Challenge})
		return
	case "event_callback":
		event := payload.Event
		// Ignore our own messages and edits.
		if event.Type == "message" && event.BotID == "" && event.Subtype == "" && event.User != "" {
			s.dispatch(func(ctx context.Context) {
				s.handleMessage(ctx, event.User, event.Channel, event.Text)
			})
		}
	}
	w.WriteHeader(http.StatusOK)
}

// handleSlackCommand handles the /digest, /preferences, and /reset slash
// commands.
func (s *Server) handleSlackCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	command := r.FormValue("command")
	userID := r.FormValue("user_id")
	channel := r.FormValue("channel_id")
	text := strings.TrimSpace(r.FormValue("text"))

	switch command {
	case "/digest":
		if s.deps.Profiles.NeedsOnboarding(userID) {
			s.deps.Profiles.BeginOnboarding(userID)
			ack(w, "👋 Welcome! I need to learn about you first. Tell me about your role and what topics you care about.")
			return
		}
		s.dispatch(func(ctx context.Context) { s.sendDigest(ctx, userID, channel) })
		ack(w, "🔎 Building your personalized digest, one moment...")

	case "/preferences":
		if text == "" {
			profile, ok := s.deps.Profiles.Get(userID)
			if !ok {
				ack(w, "No profile yet. Describe yourself after the command: `/preferences senior designer into figma and typography`")
				return
			}
			ack(w, currentProfileText(profile))
			return
		}
		s.dispatch(func(ctx context.Context) {
			updated := s.deps.Profiles.Update(ctx, userID, text)
			s.post(ctx, channel, messaging.FormatProfileConfirmation(updated))
		})
		ack(w, "Updating your profile...")

	case "/reset":
		s.deps.Curator.ResetUser(userID)
		ack(w, "🧹 Cleared your article history and conversation memory. Your next digest starts fresh.")

	default:
		ack(w, "Unknown command.")
	}
}

func ack(w http.ResponseWriter, text string) {
	respondJSON(w, http.StatusOK, map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	})
}

func currentProfileText(profile core.UserProfile) string {
	return "*Current profile:*\n" +
		"• Role: " + string(profile.PrimaryRole) + "\n" +
		"• Industry: " + profile.Industry + "\n" +
		"• Interests: " + strings.Join(profile.SecondaryInterests, ", ") + "\n\n" +
		"To update: `/preferences [describe yourself again]`"
}

// sendDigest builds and posts a digest for one user.
func (s *Server) sendDigest(ctx context.Context, userID, channel string) {
	profile, ok := s.deps.Profiles.Get(userID)
	if !ok {
		s.deps.Profiles.BeginOnboarding(userID)
		s.post(ctx, channel, messaging.FormatOnboardingPrompt())
		return
	}

	articles := s.deps.Curator.BuildDigest(ctx, userID, profile)
	if len(articles) == 0 {
		s.post(ctx, channel, messaging.SlackMessage{
			Text: "No new stories for you right now. Try again later, or `/reset` to see past articles again.",
		})
		return
	}

	intro := ""
	if s.deps.Assistant != nil {
		summary, err := s.deps.Assistant.SummarizeDigest(ctx, profile, articles)
		if err != nil {
			logger.Warn("Digest intro generation failed", "user_id", userID, "error", err.Error())
		} else {
			intro = summary
		}
	}

	s.post(ctx, channel, messaging.FormatDigest(profile, articles, intro, time.Now()))
}

// handleMessage is the conversational entry point for non-command messages.
func (s *Server) handleMessage(ctx context.Context, userID, channel, text string) {
	if s.deps.Profiles.AwaitingDescription(userID) {
		profile := s.deps.Profiles.CompleteOnboarding(ctx, userID, text)
		s.post(ctx, channel, messaging.FormatProfileConfirmation(profile))
		return
	}
	if s.deps.Profiles.NeedsOnboarding(userID) {
		s.deps.Profiles.BeginOnboarding(userID)
		s.post(ctx, channel, messaging.FormatOnboardingPrompt())
		return
	}

	topic := conversation.ClassifyTopic(text)

	if topic == core.TopicWebSearch && s.deps.Search != nil {
		s.handleSearch(ctx, userID, channel, text)
		return
	}

	resolved, recent := s.deps.Curator.ResolveReference(userID, text)
	if resolved == nil {
		s.post(ctx, channel, messaging.FormatDisambiguation(recent))
		return
	}

	response := s.respondAbout(ctx, resolved.Article, topic, text)
	s.post(ctx, channel, messaging.SlackMessage{Text: response})
	s.deps.Curator.RecordExchange(userID, text, resolved.Article, topic, response)
}

// respondAbout produces the reply body for a resolved article.
func (s *Server) respondAbout(ctx context.Context, article core.Article, topic core.Topic, text string) string {
	if topic == core.TopicFullArticleSummary && article.Link != "" {
		body, err := fetch.ExtractArticleText(ctx, article.Link, 15*time.Second)
		if err == nil && s.deps.Assistant != nil {
			summary, err := s.deps.Assistant.SummarizeText(ctx, article.Title, body)
			if err == nil {
				return summary
			}
		}
		if err != nil {
			logger.Warn("Full-article extraction failed", "link", article.Link, "error", err.Error())
		}
	}

	if s.deps.Assistant != nil {
		answer, err := s.deps.Assistant.Answer(ctx, article, topic, text)
		if err == nil {
			return answer
		}
		logger.Warn("Answer generation failed", "error", err.Error())
	}

	// Non-generative fallback: echo what we know about the article.
	response := "*" + article.Title + "* (" + article.Source + ")"
	if article.Summary != "" {
		response += "\n" + article.Summary
	}
	if article.Link != "" {
		response += "\n" + article.Link
	}
	return response
}

// handleSearch runs a conversational web search and remembers the results.
func (s *Server) handleSearch(ctx context.Context, userID, channel, text string) {
	query := extractSearchQuery(text)

	maxResults := s.cfg.Search.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	results, err := s.deps.Search.Search(ctx, query, search.Config{MaxResults: maxResults})
	if err != nil || len(results) == 0 {
		if err != nil {
			logger.Warn("Conversational search failed", "query", query, "error", err.Error())
		}
		s.post(ctx, channel, messaging.SlackMessage{Text: "I couldn't find anything for \"" + query + "\" right now."})
		return
	}

	articles := s.deps.Curator.SearchAndRemember(userID, query, results)
	s.post(ctx, channel, messaging.FormatSearchResults(query, articles))
}

// extractSearchQuery strips the leading search cue from a message.
func extractSearchQuery(text string) string {
	lower := strings.ToLower(text)
	cues := []string{"search the web for", "search for", "look up", "find news about", "find news on", "find news"}
	for _, cue := range cues {
		if idx := strings.Index(lower, cue); idx >= 0 {
			query := strings.TrimSpace(text[idx+len(cue):])
			if query != "" {
				return strings.Trim(query, "?.!")
			}
		}
	}
	return strings.Trim(strings.TrimSpace(text), "?.!")
}

func (s *Server) post(ctx context.Context, channel string, message messaging.SlackMessage) {
	if err := s.deps.Poster.PostMessage(ctx, channel, message); err != nil {
		logger.Error("Failed to post slack message", err, "channel", channel)
	}
}
