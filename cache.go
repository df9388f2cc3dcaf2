package newsreports

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultCacheTTL is how long a cached source batch stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// SourceCache maps a source name to a time-boxed snapshot of its most recent
// processed batch. Entries are written only after a successful fetch, so a
// valid entry always represents real feed content.
type SourceCache interface {
	// IsValid reports whether the entry for source is younger than the TTL.
	IsValid(source string) bool
	// Load returns the cached batch for source. A missing or corrupt entry
	// reads as an empty batch, never an error.
	Load(source string) []Article
	// Save overwrites the entry for source unconditionally.
	Save(source string, items []Article) error
}

var cacheBucket = []byte("sources")

type cacheEntry struct {
	Items   []Article `json:"items"`
	SavedAt time.Time `json:"saved_at"`
}

// BoltCache is a SourceCache persisted in a single bbolt file, one entry per
// source keyed by normalized source name.
type BoltCache struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// NewBoltCache opens (creating if needed) the cache file at path. Entries
// older than ttl read as invalid.
func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache bucket: %w", err)
	}
	return &BoltCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the underlying bbolt file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// IsValid reports whether the cached batch for source is younger than the TTL.
func (c *BoltCache) IsValid(source string) bool {
	entry, ok := c.get(source)
	return ok && c.now().Sub(entry.SavedAt) < c.ttl
}

// Load returns the cached batch for source, or an empty batch when the entry
// is missing or unreadable.
func (c *BoltCache) Load(source string) []Article {
	entry, ok := c.get(source)
	if !ok {
		return nil
	}
	return entry.Items
}

// Save overwrites the cached batch for source with a fresh write timestamp.
func (c *BoltCache) Save(source string, items []Article) error {
	raw, err := json.Marshal(cacheEntry{Items: items, SavedAt: c.now()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(cacheKey(source), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (c *BoltCache) get(source string) (cacheEntry, bool) {
	var entry cacheEntry
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(cacheBucket).Get(cacheKey(source))
		if raw == nil {
			return nil
		}
		// A corrupt entry reads as a miss.
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return entry, found
}

func cacheKey(source string) []byte {
	return []byte(strings.ReplaceAll(strings.ToLower(source), " ", "_"))
}
