package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pulsebot/internal/core"
	"pulsebot/internal/taxonomy"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// Reddit fetches hot posts from the subreddits mapped in the taxonomy table.
// Posts inherit the category of their subreddit.
type Reddit struct {
	baseURL    string
	userAgent  string
	subreddits []string
	client     *http.Client
}

// NewReddit creates a Reddit fetcher. An empty subreddit list covers every
// subreddit in the taxonomy table; an empty baseURL uses reddit.com.
func NewReddit(baseURL, userAgent string, subreddits []string, timeout time.Duration) *Reddit {
	if baseURL == "" {
		baseURL = defaultRedditBaseURL
	}
	if userAgent == "" {
		userAgent = "pulsebot/1.0"
	}
	if len(subreddits) == 0 {
		for name := range taxonomy.SubredditCategories {
			subreddits = append(subreddits, name)
		}
	}
	return &Reddit{
		baseURL:    baseURL,
		userAgent:  userAgent,
		subreddits: subreddits,
		client:     newClient(timeout),
	}
}

func (r *Reddit) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				Selftext   string  `json:"selftext"`
				Ups        int     `json:"ups"`
				CreatedUTC float64 `json:"created_utc"`
				Stickied   bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns up to limit posts per subreddit. A failing subreddit is
// skipped; the batch fails only when the context is done.
func (r *Reddit) Fetch(ctx context.Context, limit int) ([]core.Article, error) {
	var articles []core.Article
	for _, subreddit := range r.subreddits {
		listing, err := r.fetchSubreddit(ctx, subreddit, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		category := taxonomy.SubredditCategories[subreddit]
		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || post.Title == "" {
				continue
			}
			articles = append(articles, core.Article{
				Title:           post.Title,
				Link:            post.URL,
				Summary:         post.Selftext,
				Published:       time.Unix(int64(post.CreatedUTC), 0).UTC(),
				Source:          "r/" + subreddit,
				Category:        category,
				PopularityScore: post.Ups,
			})
		}
	}
	return articles, nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, subreddit string, limit int) (*redditListing, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, subreddit, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subreddit %s returned status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode subreddit %s: %w", subreddit, err)
	}
	return &listing, nil
}
