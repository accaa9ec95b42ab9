package fetch

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"pulsebot/internal/core"
)

// NewsSources maps each category onto its curated RSS feeds.
var NewsSources = map[core.Category][]string{
	core.CategoryEngineering: {
		"https://techcrunch.com/feed/",
		"https://hnrss.org/frontpage",
		"https://stackoverflow.blog/feed/",
		"https://github.blog/feed/",
		"https://dev.to/feed",
	},
	core.CategoryDesign: {
		"https://www.designernews.co/feed",
		"https://uxplanet.org/feed",
		"https://www.smashingmagazine.com/feed/",
		"https://dribbble.com/shots.rss",
	},
	core.CategoryProduct: {
		"https://www.producthunt.com/feed",
		"https://firstround.com/review/feed/",
		"https://www.mindtheproduct.com/feed/",
	},
	core.CategoryBusiness: {
		"https://techcrunch.com/category/startups/feed/",
		"https://news.ycombinator.com/rss",
		"https://a16z.com/feed/",
	},
	core.CategoryAIML: {
		"https://blog.openai.com/rss/",
		"https://ai.googleblog.com/feeds/posts/default",
		"https://research.fb.com/feed/",
	},
}

// RSS fetches articles from category feeds via gofeed.
type RSS struct {
	sources map[core.Category][]string
	parser  *gofeed.Parser
}

// NewRSS creates an RSS fetcher. A nil sources map uses NewsSources.
func NewRSS(sources map[core.Category][]string, userAgent string) *RSS {
	if sources == nil {
		sources = NewsSources
	}
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &RSS{sources: sources, parser: parser}
}

func (r *RSS) Name() string { return "rss" }

// Fetch returns up to limit items per feed, tagged with the feed's category.
// Unreachable or malformed feeds are skipped.
func (r *RSS) Fetch(ctx context.Context, limit int) ([]core.Article, error) {
	var articles []core.Article
	for category, urls := range r.sources {
		for _, url := range urls {
			feed, err := r.parser.ParseURLWithContext(url, ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			count := 0
			for _, item := range feed.Items {
				if count >= limit {
					break
				}
				if item.Title == "" {
					continue
				}
				var published time.Time
				if item.PublishedParsed != nil {
					published = item.PublishedParsed.UTC()
				}
				articles = append(articles, core.Article{
					Title:     item.Title,
					Link:      item.Link,
					Summary:   item.Description,
					Published: published,
					Source:    feed.Title,
					Category:  category,
				})
				count++
			}
		}
	}
	return articles, nil
}
