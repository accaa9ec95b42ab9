// Package search provides conversational web search behind a provider
// interface, with DuckDuckGo HTML scraping and Google Custom Search
// implementations.
package search

import (
	"context"
	"time"

	"pulsebot/internal/core"
)

// Provider defines the unified interface for search providers.
type Provider interface {
	// Search performs a search with configuration.
	Search(ctx context.Context, query string, config Config) ([]Result, error)

	// GetName returns the name of the search provider.
	GetName() string
}

// Config holds configuration for search requests.
type Config struct {
	MaxResults int           // Maximum number of results to return
	SinceTime  time.Duration // Only return results newer than this duration
	Language   string        // Language preference (e.g., "en", "es")
}

// Result represents a unified search result.
type Result struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	Domain      string    `json:"domain"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Source      string    `json:"source"` // Provider-specific source identifier
	Rank        int       `json:"rank"`   // Position in search results
}

// ProviderType represents the type of search provider.
type ProviderType string

const (
	ProviderTypeDuckDuckGo ProviderType = "duckduckgo"
	ProviderTypeGoogle     ProviderType = "google"
	ProviderTypeMock       ProviderType = "mock"
)

// ProviderFactory creates search providers based on type and configuration.
type ProviderFactory struct{}

// NewProviderFactory creates a new provider factory.
func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreateProvider creates a search provider of the specified type.
func (f *ProviderFactory) CreateProvider(providerType ProviderType, config map[string]string) (Provider, error) {
	switch providerType {
	case ProviderTypeDuckDuckGo:
		return NewDuckDuckGoProvider(), nil
	case ProviderTypeGoogle:
		apiKey, exists := config["api_key"]
		if !exists || apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		searchID, exists := config["search_id"]
		if !exists || searchID == "" {
			return nil, ErrMissingSearchID
		}
		return NewGoogleProvider(apiKey, searchID), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// ResultsToArticles converts search results into the article form the
// conversation layer remembers, so "read this" can target a result.
func ResultsToArticles(results []Result) []core.Article {
	articles := make([]core.Article, 0, len(results))
	for _, result := range results {
		source := result.Domain
		if source == "" {
			source = "Web Search"
		}
		articles = append(articles, core.Article{
			Title:     result.Title,
			Link:      result.URL,
			Summary:   result.Snippet,
			Published: result.PublishedAt,
			Source:    source,
			Category:  core.CategorySearchResult,
		})
	}
	return articles
}
