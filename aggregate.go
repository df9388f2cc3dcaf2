package newsreports

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WSNBB0345/news-reports/config"
)

// fallbackSuccessRate is the share of sources that must fetch successfully
// before an aggregation pass skips the degradation ladder.
const fallbackSuccessRate = 0.3

// minRegionItems is the per-region sparseness gate: a fallback tier only
// replaces a region's articles when the region currently holds fewer items
// than this.
const minRegionItems = 2

// minTotalItems is the global volume gate between the store tier and the
// sample tier: only when the whole pass still holds fewer items than this do
// static samples come into play.
const minTotalItems = 10

// Fetcher retrieves the raw entries of one feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]NewsItem, error)
}

// ArticleStore is the slice of the article store the orchestrator drives.
type ArticleStore interface {
	InsertBatch(articles []StoredArticle) (int, error)
	AllArticlesByRegion(window time.Duration) (map[string][]StoredArticle, error)
	RecordSourceOutcome(passID, source string, success bool, count int, errMsg string, duration time.Duration) error
}

// Aggregator drives the per-source fetch-or-cache decision, assembles
// region-grouped results, and walks the degradation ladder (live fetch,
// cache, persisted store, static samples) when live data under-delivers.
//
// Sources are processed sequentially within one pass. A mutex keeps
// concurrent API requests from running overlapping passes against the same
// cache and store.
type Aggregator struct {
	mu      sync.Mutex
	cfg     *config.Config
	fetcher Fetcher
	cache   SourceCache
	store   ArticleStore
	samples map[string][]Article
	log     *zap.Logger
}

// NewAggregator wires an aggregator from its collaborators.
func NewAggregator(cfg *config.Config, fetcher Fetcher, cache SourceCache, store ArticleStore, log *zap.Logger) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   cache,
		store:   store,
		samples: SampleNewsByRegion(),
		log:     log,
	}
}

// FetchAll aggregates every configured source into a flat list. Sources with
// a valid cache entry are served from cache; the rest are fetched, summarized,
// and cached. Articles carry no region tagging at this level, and nothing is
// persisted.
func (a *Aggregator) FetchAll(ctx context.Context) []Article {
	a.mu.Lock()
	defer a.mu.Unlock()

	var aggregated []Article
	for _, region := range a.cfg.Regions {
		for _, src := range region.Sources {
			// An empty entry reads as a miss even when still fresh.
			if a.cache.IsValid(src.Name) {
				if cached := a.cache.Load(src.Name); len(cached) > 0 {
					aggregated = append(aggregated, cached...)
					continue
				}
			}

			items, err := a.fetcher.Fetch(ctx, src.URL)
			if err != nil {
				a.log.Warn("feed fetch failed",
					zap.String("source", src.Name),
					zap.Error(err))
				continue
			}
			processed := a.process(src.Name, capItems(items, a.cfg.MaxItemsPerSource))
			if len(processed) == 0 {
				continue
			}
			aggregated = append(aggregated, processed...)
			if err := a.cache.Save(src.Name, processed); err != nil {
				a.log.Warn("cache write failed",
					zap.String("source", src.Name),
					zap.Error(err))
			}
		}
	}
	return aggregated
}

// FetchByRegion aggregates every configured source grouped by region. Fresh
// fetches are summarized, persisted to the article store, audited, and
// cached. When fewer than 30% of sources deliver, the pass falls back to the
// store's last 24 hours and, if that is still too thin, to static samples.
func (a *Aggregator) FetchByRegion(ctx context.Context) map[string][]Article {
	a.mu.Lock()
	defer a.mu.Unlock()

	passID := uuid.NewString()
	byRegion := make(map[string][]Article, len(a.cfg.Regions))
	successful, total := 0, 0

	for _, region := range a.cfg.Regions {
		regionNews := []Article{}
		for _, src := range region.Sources {
			total++

			// An empty entry reads as a miss even when still fresh: it must
			// not count as a success or suppress a refetch for the TTL.
			if a.cache.IsValid(src.Name) {
				if cached := a.cache.Load(src.Name); len(cached) > 0 {
					for i := range cached {
						cached[i].Region = region.Name
						cached[i].Country = region.Name
						cached[i].Flag = src.Flag
					}
					regionNews = append(regionNews, cached...)
					successful++
					continue
				}
			}

			start := time.Now()
			items, err := a.fetcher.Fetch(ctx, src.URL)
			duration := time.Since(start)
			items = capItems(items, a.cfg.MaxItemsPerSource)

			if err != nil || len(items) == 0 {
				reason := "feed returned no usable items"
				if err != nil {
					reason = err.Error()
				}
				a.log.Warn("feed fetch failed",
					zap.String("source", src.Name),
					zap.String("region", region.Name),
					zap.String("reason", reason))
				a.recordOutcome(passID, src.Name, false, 0, reason, duration)
				continue
			}

			processed := make([]Article, 0, len(items))
			stored := make([]StoredArticle, 0, len(items))
			for _, item := range items {
				summary := Summarize(item.Description, a.cfg.SummarySentences)
				processed = append(processed, Article{
					Region:  region.Name,
					Country: region.Name,
					Flag:    src.Flag,
					Source:  src.Name,
					Title:   item.Title,
					Link:    item.Link,
					Summary: summary,
				})
				stored = append(stored, StoredArticle{
					Region:      region.Name,
					Country:     region.Name,
					Flag:        src.Flag,
					Source:      src.Name,
					Title:       item.Title,
					Link:        item.Link,
					Description: item.Description,
					Summary:     summary,
					PubDate:     item.Published,
				})
			}
			regionNews = append(regionNews, processed...)

			inserted, insErr := a.store.InsertBatch(stored)
			if insErr != nil {
				a.log.Warn("article persistence failed",
					zap.String("source", src.Name),
					zap.Error(insErr))
				a.recordOutcome(passID, src.Name, false, 0, insErr.Error(), duration)
			} else {
				a.log.Info("articles stored",
					zap.String("source", src.Name),
					zap.Int("inserted", inserted))
				a.recordOutcome(passID, src.Name, true, inserted, "", duration)
			}

			// Cache entries stay source-scoped so another region grouping can
			// reuse them; region and flag are re-stamped on load.
			cacheItems := make([]Article, len(processed))
			for i, p := range processed {
				cacheItems[i] = Article{
					Source:  p.Source,
					Title:   p.Title,
					Link:    p.Link,
					Summary: p.Summary,
				}
			}
			if err := a.cache.Save(src.Name, cacheItems); err != nil {
				a.log.Warn("cache write failed",
					zap.String("source", src.Name),
					zap.Error(err))
			}
			successful++
		}

		if a.cfg.MaxItemsPerRegion > 0 && len(regionNews) > a.cfg.MaxItemsPerRegion {
			regionNews = regionNews[:a.cfg.MaxItemsPerRegion]
		}
		byRegion[region.Name] = regionNews
	}

	if total > 0 && float64(successful) < float64(total)*fallbackSuccessRate {
		a.log.Info("most feeds unavailable, engaging fallback ladder",
			zap.Int("successful", successful),
			zap.Int("total", total))
		a.applyFallback(byRegion)
	}
	return byRegion
}

// applyFallback walks the persisted-store and static-sample tiers. Store
// substitution is per region: only regions holding fewer than minRegionItems
// items are replaced, and only where the store actually has articles. Samples
// engage after that, and only when the pass as a whole is still below
// minTotalItems.
func (a *Aggregator) applyFallback(byRegion map[string][]Article) {
	for region, articles := range a.storedByRegion() {
		if len(byRegion[region]) < minRegionItems {
			byRegion[region] = articles
		}
	}

	totalItems := 0
	for _, articles := range byRegion {
		totalItems += len(articles)
	}
	if len(byRegion) > 0 && totalItems >= minTotalItems {
		return
	}

	a.log.Info("stored articles insufficient, using sample content",
		zap.Int("total_items", totalItems))
	for region, samples := range a.samples {
		if len(byRegion[region]) < minRegionItems {
			byRegion[region] = samples
		}
	}
}

// storedByRegion reads the store's last 24 hours grouped by region, capped
// per region and converted to the API shape. Store failures degrade to an
// empty result.
func (a *Aggregator) storedByRegion() map[string][]Article {
	grouped, err := a.store.AllArticlesByRegion(fallbackWindow)
	if err != nil {
		a.log.Warn("store lookup failed", zap.Error(err))
		return nil
	}

	out := make(map[string][]Article, len(grouped))
	for region, rows := range grouped {
		if len(rows) > a.cfg.MaxItemsPerSource {
			rows = rows[:a.cfg.MaxItemsPerSource]
		}
		articles := make([]Article, 0, len(rows))
		for _, row := range rows {
			articles = append(articles, row.Article())
		}
		if len(articles) > 0 {
			out[region] = articles
		}
	}
	return out
}

func (a *Aggregator) process(source string, items []NewsItem) []Article {
	processed := make([]Article, 0, len(items))
	for _, item := range items {
		processed = append(processed, Article{
			Source:  source,
			Title:   item.Title,
			Link:    item.Link,
			Summary: Summarize(item.Description, a.cfg.SummarySentences),
		})
	}
	return processed
}

func (a *Aggregator) recordOutcome(passID, source string, success bool, count int, reason string, duration time.Duration) {
	if err := a.store.RecordSourceOutcome(passID, source, success, count, reason, duration); err != nil {
		a.log.Warn("source outcome not recorded",
			zap.String("source", source),
			zap.Error(err))
	}
}

func capItems(items []NewsItem, max int) []NewsItem {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
