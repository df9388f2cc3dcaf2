package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies an empty path yields the built-in configuration
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ListenAddr)
	assert.Equal(t, "news.db", cfg.DatabasePath)
	assert.Equal(t, "source_cache.db", cfg.CachePath)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxItemsPerSource)
	assert.Equal(t, 20, cfg.MaxItemsPerRegion)
	assert.Equal(t, 2, cfg.SummarySentences)
	assert.NotEmpty(t, cfg.Regions, "defaults include the built-in feed catalog")
}

// TestLoad_FileOverrides verifies file values win over defaults while
// unlisted keys keep theirs
func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9090"
cache_ttl: 60s
max_items_per_source: 3
regions:
  - name: Testland
    sources:
      - name: Test Feed
        url: http://example.com/feed.xml
        flag: "🏳️"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MaxItemsPerSource)
	assert.Equal(t, 20, cfg.MaxItemsPerRegion, "unset keys keep defaults")

	require.Len(t, cfg.Regions, 1)
	assert.Equal(t, "Testland", cfg.Regions[0].Name)
	require.Len(t, cfg.Regions[0].Sources, 1)
	assert.Equal(t, "http://example.com/feed.xml", cfg.Regions[0].Sources[0].URL)
}

// TestLoad_MissingFile verifies a named but absent file is an error rather
// than a silent fallback
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestDefaultRegions_Catalog verifies the embedded catalog parses and every
// source is fully specified
func TestDefaultRegions_Catalog(t *testing.T) {
	regions, err := DefaultRegions()
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	names := make([]string, 0, len(regions))
	for _, region := range regions {
		names = append(names, region.Name)
		require.NotEmpty(t, region.Sources, region.Name)
		for _, src := range region.Sources {
			assert.NotEmpty(t, src.Name, region.Name)
			assert.NotEmpty(t, src.URL, region.Name)
		}
	}
	assert.Contains(t, names, "North America")
	assert.Contains(t, names, "Global")
}
