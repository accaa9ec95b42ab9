package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// maxExtractedRunes caps full-article text so a single page cannot blow up a
// downstream LLM prompt.
const maxExtractedRunes = 12000

// ExtractArticleText downloads a page and returns its readable body text,
// for the read-the-full-article conversation flow.
func ExtractArticleText(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid article url %q: %w", rawURL, err)
	}

	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	article, err := readability.FromURL(parsed.String(), timeout)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	text := article.TextContent
	if runes := []rune(text); len(runes) > maxExtractedRunes {
		text = string(runes[:maxExtractedRunes])
	}
	return text, nil
}
