package newsreports

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Test helper: create an article store backed by a temp database
func createTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "news.db")
	store, err := NewStore(dbPath, zap.NewNop())
	require.NoError(t, err, "should create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func storedArticle(region, source, title, link string) StoredArticle {
	return StoredArticle{
		Region:      region,
		Country:     region,
		Flag:        "🏳️",
		Source:      source,
		Title:       title,
		Link:        link,
		Description: "A description of " + title + ".",
		Summary:     "A summary of " + title + ".",
	}
}

// Test helper: rewrite a row's fetch_date so window and purge behavior can be
// exercised
func backdateArticle(t *testing.T, store *Store, link string, to time.Time) {
	t.Helper()
	_, err := store.db.Exec("UPDATE news_articles SET fetch_date = ? WHERE link = ?", formatTime(to), link)
	require.NoError(t, err)
}

// TestNewStore_CreatesDatabase verifies schema initialization
func TestNewStore_CreatesDatabase(t *testing.T) {
	store := createTestStore(t)

	stats, err := store.Stats()
	require.NoError(t, err, "should be able to query a fresh database")
	assert.Equal(t, 0, stats.TotalArticles)
	assert.Empty(t, stats.ArticlesByRegion)
}

// TestArticleHash_Deterministic verifies the dedup key depends only on the
// (title, link, source) triple
func TestArticleHash_Deterministic(t *testing.T) {
	a := ArticleHash("Title", "http://example.com/1", "BBC")
	b := ArticleHash("Title", "http://example.com/1", "BBC")
	c := ArticleHash("Title", "http://example.com/1", "CNN")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "a different source is a different article")
}

// TestInsertBatch_Idempotent verifies re-inserting the same triple adds no row
// and reports zero inserted
func TestInsertBatch_Idempotent(t *testing.T) {
	store := createTestStore(t)
	batch := []StoredArticle{
		storedArticle("Europe", "BBC", "First", "http://example.com/1"),
		storedArticle("Europe", "BBC", "Second", "http://example.com/2"),
	}

	inserted, err := store.InsertBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.InsertBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted, "second insert of the same triples is a no-op")

	articles, err := store.ArticlesByRegion("Europe", 50, time.Hour)
	require.NoError(t, err)
	assert.Len(t, articles, 2, "exactly one row per triple")
}

// TestInsertBatch_DerivesDefaults verifies language, category, word count,
// and fetch date defaults are applied
func TestInsertBatch_DerivesDefaults(t *testing.T) {
	store := createTestStore(t)
	article := storedArticle("Europe", "BBC", "First", "http://example.com/1")
	article.Summary = "Three word summary."

	_, err := store.InsertBatch([]StoredArticle{article})
	require.NoError(t, err)

	articles, err := store.ArticlesByRegion("Europe", 1, time.Hour)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	got := articles[0]
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "general", got.Category)
	assert.Equal(t, 3, got.WordCount)
	assert.NotEmpty(t, got.HashID)
	assert.False(t, got.FetchDate.IsZero())
	assert.Equal(t, []string{}, got.Tags)
}

// TestArticlesByRegion_RecencyWindow verifies rows older than the window are
// excluded from queries without being deleted
func TestArticlesByRegion_RecencyWindow(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "Fresh", "http://example.com/fresh"),
		storedArticle("Europe", "BBC", "Stale", "http://example.com/stale"),
	})
	require.NoError(t, err)
	backdateArticle(t, store, "http://example.com/stale", time.Now().Add(-48*time.Hour))

	articles, err := store.ArticlesByRegion("Europe", 50, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Fresh", articles[0].Title)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles, "windowed queries never delete rows")
}

// TestArticlesByRegion_OrdersMostRecentFirst verifies fetch_date descending
// ordering
func TestArticlesByRegion_OrdersMostRecentFirst(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "Older", "http://example.com/older"),
		storedArticle("Europe", "BBC", "Newer", "http://example.com/newer"),
	})
	require.NoError(t, err)
	backdateArticle(t, store, "http://example.com/older", time.Now().Add(-2*time.Hour))

	articles, err := store.ArticlesByRegion("Europe", 50, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Newer", articles[0].Title)
	assert.Equal(t, "Older", articles[1].Title)
}

// TestAllArticlesByRegion_Groups verifies grouping across regions
func TestAllArticlesByRegion_Groups(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "First", "http://example.com/1"),
		storedArticle("Europe", "DW", "Second", "http://example.com/2"),
		storedArticle("Asia Pacific", "NHK World", "Third", "http://example.com/3"),
	})
	require.NoError(t, err)

	grouped, err := store.AllArticlesByRegion(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["Europe"], 2)
	assert.Len(t, grouped["Asia Pacific"], 1)
}

// TestStats_Counts verifies totals, per-region counts, top sources, and the
// 24-hour activity count
func TestStats_Counts(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "First", "http://example.com/1"),
		storedArticle("Europe", "BBC", "Second", "http://example.com/2"),
		storedArticle("Europe", "DW", "Third", "http://example.com/3"),
		storedArticle("Global", "Reuters", "Fourth", "http://example.com/4"),
	})
	require.NoError(t, err)
	backdateArticle(t, store, "http://example.com/4", time.Now().Add(-48*time.Hour))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalArticles)
	assert.Equal(t, map[string]int{"Europe": 3, "Global": 1}, stats.ArticlesByRegion)
	assert.Equal(t, map[string]int{"BBC": 2, "DW": 1, "Reuters": 1}, stats.TopSources)
	assert.Equal(t, 3, stats.ArticlesLast24h)
}

// TestPurgeOlderThan_RejectsOutOfRangeDays verifies the [1, 365] bound
func TestPurgeOlderThan_RejectsOutOfRangeDays(t *testing.T) {
	store := createTestStore(t)

	_, err := store.PurgeOlderThan(0)
	assert.ErrorIs(t, err, ErrInvalidRetention)

	_, err = store.PurgeOlderThan(366)
	assert.ErrorIs(t, err, ErrInvalidRetention)
}

// TestPurgeOlderThan_DeletesOnlyOldRows verifies exactly the rows past the
// cutoff are removed
func TestPurgeOlderThan_DeletesOnlyOldRows(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "Recent", "http://example.com/recent"),
		storedArticle("Europe", "BBC", "Ancient", "http://example.com/ancient"),
	})
	require.NoError(t, err)
	backdateArticle(t, store, "http://example.com/ancient", time.Now().AddDate(0, 0, -31))

	deleted, err := store.PurgeOlderThan(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	articles, err := store.ArticlesByRegion("Europe", 50, 365*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Recent", articles[0].Title)
}

// TestRecordSourceOutcome_Counters verifies rolling counters and the
// append-only fetch log
func TestRecordSourceOutcome_Counters(t *testing.T) {
	store := createTestStore(t)

	require.NoError(t, store.RecordSourceOutcome("pass-1", "BBC", true, 5, "", 120*time.Millisecond))
	require.NoError(t, store.RecordSourceOutcome("pass-2", "BBC", false, 0, "connection refused", 40*time.Millisecond))

	var fetchCount, errorCount int
	err := store.db.QueryRow(
		"SELECT fetch_count, error_count FROM news_sources WHERE name = ?", "BBC",
	).Scan(&fetchCount, &errorCount)
	require.NoError(t, err)
	assert.Equal(t, 2, fetchCount)
	assert.Equal(t, 1, errorCount)

	var logCount int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM fetch_logs WHERE source_name = ?", "BBC",
	).Scan(&logCount)
	require.NoError(t, err)
	assert.Equal(t, 2, logCount)

	var status, errMsg string
	err = store.db.QueryRow(
		"SELECT status, error_message FROM fetch_logs WHERE pass_id = ?", "pass-2",
	).Scan(&status, &errMsg)
	require.NoError(t, err)
	assert.Equal(t, "error", status)
	assert.Equal(t, "connection refused", errMsg)
}

// TestLatest_ReturnsMostRecent verifies the latest-articles query honors its
// limit and ordering
func TestLatest_ReturnsMostRecent(t *testing.T) {
	store := createTestStore(t)
	_, err := store.InsertBatch([]StoredArticle{
		storedArticle("Europe", "BBC", "Older", "http://example.com/older"),
		storedArticle("Europe", "BBC", "Newer", "http://example.com/newer"),
	})
	require.NoError(t, err)
	backdateArticle(t, store, "http://example.com/older", time.Now().Add(-2*time.Hour))

	latest, err := store.Latest(1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "Newer", latest[0].Title)
}
