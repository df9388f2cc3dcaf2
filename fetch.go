package newsreports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// FeedFetcher retrieves a single feed over HTTP and normalizes its entries.
// The gofeed library detects and handles both RSS and Atom formats, so one
// fetcher serves every configured source.
type FeedFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
}

// NewFeedFetcher creates a fetcher whose requests are bounded by timeout.
// There are no retries: a failed request surfaces as an error and the next
// aggregation pass tries again.
func NewFeedFetcher(timeout time.Duration) *FeedFetcher {
	return &FeedFetcher{
		client: resty.New().SetTimeout(timeout),
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves and parses one feed URL. Entries missing a non-empty
// title, link, or description are silently skipped. The returned error
// describes why a feed yielded nothing so the caller can record it in the
// fetch audit log; callers treat any error as an empty result.
func (f *FeedFetcher) Fetch(ctx context.Context, url string) ([]NewsItem, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status())
	}

	feed, err := f.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	items := make([]NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		desc := strings.TrimSpace(entry.Description)
		if title == "" || link == "" || desc == "" {
			continue
		}
		items = append(items, NewsItem{
			Title:       title,
			Link:        link,
			Description: desc,
			Published:   strings.TrimSpace(entry.Published),
		})
	}
	return items, nil
}
