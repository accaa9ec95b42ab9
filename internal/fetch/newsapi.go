package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pulsebot/internal/core"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPI fetches technology headlines from newsapi.org.
type NewsAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewNewsAPI creates a NewsAPI fetcher. An empty baseURL uses newsapi.org.
func NewNewsAPI(baseURL, apiKey string, timeout time.Duration) *NewsAPI {
	if baseURL == "" {
		baseURL = defaultNewsAPIBaseURL
	}
	return &NewsAPI{baseURL: baseURL, apiKey: apiKey, client: newClient(timeout)}
}

func (n *NewsAPI) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		Description string    `json:"description"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch returns up to limit technology headlines. Without an API key it
// contributes nothing rather than erroring on every digest.
func (n *NewsAPI) Fetch(ctx context.Context, limit int) ([]core.Article, error) {
	if n.apiKey == "" {
		return nil, nil
	}

	url := fmt.Sprintf("%s/top-headlines?category=technology&pageSize=%d&apiKey=%s", n.baseURL, limit, n.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var decoded newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}
	if decoded.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned status %q", decoded.Status)
	}

	articles := make([]core.Article, 0, len(decoded.Articles))
	for _, item := range decoded.Articles {
		if item.Title == "" {
			continue
		}
		source := item.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		articles = append(articles, core.Article{
			Title:     item.Title,
			Link:      item.URL,
			Summary:   item.Description,
			Published: item.PublishedAt.UTC(),
			Source:    source,
		})
	}
	return articles, nil
}
