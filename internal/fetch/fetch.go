// Package fetch gathers raw digest candidates from Hacker News, Reddit,
// NewsAPI, and category RSS feeds. Every source failure degrades to zero
// candidates from that source; a fully empty harvest falls back to a
// hard-coded sample pool so digest assembly always has input.
package fetch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pulsebot/internal/core"
	"pulsebot/internal/logger"
)

// Fetcher is a single candidate source.
type Fetcher interface {
	// Name labels the source in logs.
	Name() string

	// Fetch returns up to limit candidates. Implementations must respect
	// context cancellation.
	Fetch(ctx context.Context, limit int) ([]core.Article, error)
}

// Aggregator fans out to all configured fetchers under one per-source
// timeout and merges the results.
type Aggregator struct {
	fetchers []Fetcher
	limit    int
	timeout  time.Duration
}

// NewAggregator wires fetchers behind a per-source limit and timeout.
func NewAggregator(fetchers []Fetcher, perSourceLimit int, timeout time.Duration) *Aggregator {
	if perSourceLimit <= 0 {
		perSourceLimit = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{fetchers: fetchers, limit: perSourceLimit, timeout: timeout}
}

// Candidates fetches from every source concurrently and returns the merged
// pool. Failures and timeouts are logged and contribute nothing; if the whole
// harvest is empty the fallback pool is returned instead.
func (a *Aggregator) Candidates(ctx context.Context) []core.Article {
	results := make([][]core.Article, len(a.fetchers))
	var wg sync.WaitGroup

	for i, fetcher := range a.fetchers {
		wg.Add(1)
		go func(i int, fetcher Fetcher) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			articles, err := fetcher.Fetch(fetchCtx, a.limit)
			if err != nil {
				logger.Warn("Source fetch failed", "source", fetcher.Name(), "error", err.Error())
				return
			}
			results[i] = articles
		}(i, fetcher)
	}
	wg.Wait()

	var merged []core.Article
	for _, articles := range results {
		merged = append(merged, articles...)
	}
	if len(merged) == 0 {
		logger.Warn("All sources empty, using fallback pool")
		return Fallback()
	}
	return merged
}

// newClient builds the shared HTTP client configuration for fetchers.
func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
