package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pulsebot/internal/core"
)

const defaultHackerNewsBaseURL = "https://hacker-news.firebaseio.com/v0"

// HackerNews fetches top stories from the Hacker News Firebase API.
type HackerNews struct {
	baseURL string
	client  *http.Client
}

// NewHackerNews creates a Hacker News fetcher. An empty baseURL uses the
// public API.
func NewHackerNews(baseURL string, timeout time.Duration) *HackerNews {
	if baseURL == "" {
		baseURL = defaultHackerNewsBaseURL
	}
	return &HackerNews{baseURL: baseURL, client: newClient(timeout)}
}

func (h *HackerNews) Name() string { return "hackernews" }

type hnItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
	Type  string `json:"type"`
}

// Fetch returns up to limit front-page stories. Items that fail to load are
// skipped rather than failing the batch.
func (h *HackerNews) Fetch(ctx context.Context, limit int) ([]core.Article, error) {
	var ids []int64
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("failed to fetch top stories: %w", err)
	}

	articles := make([]core.Article, 0, limit)
	for _, id := range ids {
		if len(articles) >= limit {
			break
		}
		var item hnItem
		url := fmt.Sprintf("%s/item/%d.json", h.baseURL, id)
		if err := h.getJSON(ctx, url, &item); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}
		link := item.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}
		articles = append(articles, core.Article{
			Title:           item.Title,
			Link:            link,
			Published:       time.Unix(item.Time, 0).UTC(),
			Source:          "Hacker News",
			PopularityScore: item.Score,
		})
	}
	return articles, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
