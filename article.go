package newsreports

import "time"

// NewsItem is a single raw feed entry as parsed from a source. Items missing
// any of title, link, or description never leave the fetcher.
type NewsItem struct {
	Title       string
	Link        string
	Description string
	Published   string
}

// Article is a processed news item as served by the read API. Region,
// Country, and Flag are empty for source-scoped copies held in the per-source
// cache; the orchestrator stamps them when assembling region results.
type Article struct {
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
	Flag    string `json:"flag,omitempty"`
	Source  string `json:"source"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
}

// StoredArticle is the durable form an article takes in the article store.
// HashID is derived from (title, link, source) and deduplicates rows.
type StoredArticle struct {
	ID          int64
	HashID      string
	Region      string
	Country     string
	Flag        string
	Source      string
	Title       string
	Link        string
	Description string
	Summary     string
	Content     string
	PubDate     string
	FetchDate   time.Time
	Language    string
	Category    string
	Tags        []string
	WordCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Article converts a stored row back to the wire shape the API serves. Rows
// persisted without a summary fall back to a truncated description.
func (a StoredArticle) Article() Article {
	summary := a.Summary
	if summary == "" {
		summary = firstRunes(a.Description, 200) + "..."
	}
	return Article{
		Region:  a.Region,
		Country: a.Country,
		Flag:    a.Flag,
		Source:  a.Source,
		Title:   a.Title,
		Link:    a.Link,
		Summary: summary,
	}
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
