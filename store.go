package newsreports

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrInvalidRetention is returned when a purge is requested outside the
// accepted [1, 365] day range.
var ErrInvalidRetention = errors.New("retention days must be between 1 and 365")

// fallbackWindow bounds how far back the orchestrator reaches into the store
// when live fetches come up short.
const fallbackWindow = 24 * time.Hour

// Store persists deduplicated articles in SQLite. Articles are keyed by a
// content hash so re-inserting the same (title, link, source) triple is a
// no-op. SQLite serializes writers, so the store needs no locking of its own.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// StoreStats summarizes the store's contents for the stats and health
// endpoints.
type StoreStats struct {
	TotalArticles    int            `json:"total_articles"`
	ArticlesByRegion map[string]int `json:"articles_by_region"`
	TopSources       map[string]int `json:"top_sources"`
	ArticlesLast24h  int            `json:"articles_last_24h"`
}

// NewStore opens (creating if needed) the article database at path.
func NewStore(path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the article, source, and fetch-log tables along with the
// indexes the query paths rely on.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS news_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash_id TEXT UNIQUE NOT NULL,
		region TEXT NOT NULL,
		country TEXT NOT NULL,
		source TEXT NOT NULL,
		flag_emoji TEXT NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		description TEXT,
		summary TEXT,
		content TEXT,
		pub_date TEXT,
		fetch_date TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'en',
		category TEXT NOT NULL DEFAULT 'general',
		tags TEXT,
		word_count INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS news_sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		last_fetch TEXT,
		fetch_count INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fetch_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pass_id TEXT NOT NULL,
		source_name TEXT NOT NULL,
		status TEXT NOT NULL,
		articles_count INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		fetch_duration_ms INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_region ON news_articles(region);
	CREATE INDEX IF NOT EXISTS idx_articles_country ON news_articles(country);
	CREATE INDEX IF NOT EXISTS idx_articles_source ON news_articles(source);
	CREATE INDEX IF NOT EXISTS idx_articles_fetch_date ON news_articles(fetch_date);
	CREATE INDEX IF NOT EXISTS idx_articles_hash ON news_articles(hash_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ArticleHash derives the deduplication key for a (title, link, source)
// triple. The digest is deterministic, so the same article always maps to the
// same row.
func ArticleHash(title, link, source string) string {
	sum := md5.Sum([]byte(title + "|" + link + "|" + source))
	return hex.EncodeToString(sum[:])
}

// articleColumns is the canonical select list for news_articles rows.
var articleColumns = []string{
	"id", "hash_id", "region", "country", "source", "flag_emoji",
	"title", "link", "description", "summary", "content", "pub_date",
	"fetch_date", "language", "category", "tags", "word_count",
	"created_at", "updated_at",
}

// InsertBatch inserts articles, skipping any whose hash already exists, and
// returns how many rows were actually added. A row that fails to insert is
// logged and skipped; it never aborts the rest of the batch.
func (s *Store) InsertBatch(articles []StoredArticle) (int, error) {
	now := time.Now()
	inserted := 0

	for _, a := range articles {
		language := a.Language
		if language == "" {
			language = "en"
		}
		category := a.Category
		if category == "" {
			category = "general"
		}
		fetchDate := a.FetchDate
		if fetchDate.IsZero() {
			fetchDate = now
		}
		wordCount := a.WordCount
		if wordCount == 0 {
			wordCount = len(strings.Fields(a.Summary))
		}
		tags := a.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal tags: %w", err)
		}

		query, args, err := sq.Insert("news_articles").
			Options("OR IGNORE").
			Columns(
				"hash_id", "region", "country", "source", "flag_emoji",
				"title", "link", "description", "summary", "content",
				"pub_date", "fetch_date", "language", "category", "tags",
				"word_count", "created_at", "updated_at",
			).
			Values(
				ArticleHash(a.Title, a.Link, a.Source),
				a.Region, a.Country, a.Source, a.Flag,
				a.Title, a.Link, a.Description, a.Summary, a.Content,
				a.PubDate, formatTime(fetchDate), language, category,
				string(tagsJSON), wordCount, formatTime(now), formatTime(now),
			).
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("failed to build insert: %w", err)
		}

		result, err := s.db.Exec(query, args...)
		if err != nil {
			s.log.Warn("article insert failed",
				zap.String("title", a.Title),
				zap.String("source", a.Source),
				zap.Error(err))
			continue
		}
		if n, err := result.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	return inserted, nil
}

// ArticlesByRegion returns up to limit articles for region fetched within the
// window, most recently fetched first.
func (s *Store) ArticlesByRegion(region string, limit int, window time.Duration) ([]StoredArticle, error) {
	query, args, err := sq.Select(articleColumns...).
		From("news_articles").
		Where(sq.Eq{"region": region}).
		Where(sq.Gt{"fetch_date": formatTime(time.Now().Add(-window))}).
		OrderBy("fetch_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return s.queryArticles(query, args...)
}

// AllArticlesByRegion returns every article fetched within the window,
// grouped by region and ordered most recent first within each group.
func (s *Store) AllArticlesByRegion(window time.Duration) (map[string][]StoredArticle, error) {
	query, args, err := sq.Select(articleColumns...).
		From("news_articles").
		Where(sq.Gt{"fetch_date": formatTime(time.Now().Add(-window))}).
		OrderBy("region", "fetch_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	articles, err := s.queryArticles(query, args...)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]StoredArticle)
	for _, a := range articles {
		grouped[a.Region] = append(grouped[a.Region], a)
	}
	return grouped, nil
}

// Latest returns the most recently fetched articles across all sources.
func (s *Store) Latest(limit int) ([]StoredArticle, error) {
	query, args, err := sq.Select(articleColumns...).
		From("news_articles").
		OrderBy("fetch_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return s.queryArticles(query, args...)
}

func (s *Store) queryArticles(query string, args ...any) ([]StoredArticle, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []StoredArticle
	for rows.Next() {
		a, err := scanStoredArticle(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanStoredArticle(scan func(dest ...any) error) (StoredArticle, error) {
	var a StoredArticle
	var description, summary, content, pubDate, tags sql.NullString
	var wordCount sql.NullInt64
	var fetchDate, createdAt, updatedAt string

	err := scan(
		&a.ID, &a.HashID, &a.Region, &a.Country, &a.Source, &a.Flag,
		&a.Title, &a.Link, &description, &summary, &content, &pubDate,
		&fetchDate, &a.Language, &a.Category, &tags, &wordCount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return a, err
	}

	a.Description = description.String
	a.Summary = summary.String
	a.Content = content.String
	a.PubDate = pubDate.String
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &a.Tags)
	}
	a.WordCount = int(wordCount.Int64)
	a.FetchDate = parseTime(fetchDate)
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

// Stats returns aggregate counts for monitoring: the total row count,
// per-region counts, the ten busiest sources, and activity over the last 24
// hours.
func (s *Store) Stats() (*StoreStats, error) {
	stats := &StoreStats{
		ArticlesByRegion: make(map[string]int),
		TopSources:       make(map[string]int),
	}

	query, args, err := sq.Select("COUNT(*)").From("news_articles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build total query: %w", err)
	}
	if err := s.db.QueryRow(query, args...).Scan(&stats.TotalArticles); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	query, args, err = sq.Select("region", "COUNT(*)").
		From("news_articles").
		GroupBy("region").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build region query: %w", err)
	}
	if err := s.scanCounts(stats.ArticlesByRegion, query, args...); err != nil {
		return nil, err
	}

	query, args, err = sq.Select("source", "COUNT(*)").
		From("news_articles").
		GroupBy("source").
		OrderBy("COUNT(*) DESC").
		Limit(10).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build source query: %w", err)
	}
	if err := s.scanCounts(stats.TopSources, query, args...); err != nil {
		return nil, err
	}

	query, args, err = sq.Select("COUNT(*)").
		From("news_articles").
		Where(sq.Gt{"fetch_date": formatTime(time.Now().Add(-24 * time.Hour))}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recency query: %w", err)
	}
	if err := s.db.QueryRow(query, args...).Scan(&stats.ArticlesLast24h); err != nil {
		return nil, fmt.Errorf("failed to count recent articles: %w", err)
	}

	return stats, nil
}

func (s *Store) scanCounts(dest map[string]int, query string, args ...any) error {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		dest[key] = count
	}
	return rows.Err()
}

// PurgeOlderThan deletes articles whose fetch_date is older than days days
// and returns how many rows were removed. Days outside [1, 365] are rejected
// with ErrInvalidRetention.
func (s *Store) PurgeOlderThan(days int) (int64, error) {
	if days < 1 || days > 365 {
		return 0, ErrInvalidRetention
	}

	cutoff := formatTime(time.Now().AddDate(0, 0, -days))
	query, args, err := sq.Delete("news_articles").
		Where(sq.Lt{"fetch_date": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge articles: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}

	s.log.Info("purged old articles", zap.Int64("deleted", deleted), zap.Int("days", days))
	return deleted, nil
}

// RecordSourceOutcome appends a fetch-log row for one fetch attempt and bumps
// the source's rolling fetch/error counters. passID ties together every row
// written during one aggregation sweep.
func (s *Store) RecordSourceOutcome(passID, source string, success bool, count int, errMsg string, duration time.Duration) error {
	now := formatTime(time.Now())

	errInc := 1
	status := "error"
	if success {
		errInc = 0
		status = "success"
	}

	upsert := `
		INSERT INTO news_sources (name, last_fetch, fetch_count, error_count, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			last_fetch = excluded.last_fetch,
			fetch_count = news_sources.fetch_count + 1,
			error_count = news_sources.error_count + excluded.error_count,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(upsert, source, now, errInc, now, now); err != nil {
		return fmt.Errorf("failed to update source counters: %w", err)
	}

	var errVal any
	if errMsg != "" {
		errVal = errMsg
	}
	query, args, err := sq.Insert("fetch_logs").
		Columns("pass_id", "source_name", "status", "articles_count", "error_message", "fetch_duration_ms", "created_at").
		Values(passID, source, status, count, errVal, duration.Milliseconds(), now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build log insert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to append fetch log: %w", err)
	}
	return nil
}

// Timestamps are stored as RFC 3339 UTC strings so lexicographic comparison
// in SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
