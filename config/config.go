package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Source describes one feed provider inside a region.
type Source struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
	Flag string `mapstructure:"flag" yaml:"flag"`
}

// Region groups an ordered list of sources under one geographic heading. The
// order of sources decides how their articles interleave within the region.
type Region struct {
	Name    string   `mapstructure:"name" yaml:"name"`
	Sources []Source `mapstructure:"sources" yaml:"sources"`
}

// Config carries every tunable of the aggregation pipeline. Values are fixed
// once loaded; nothing is renegotiated at runtime.
type Config struct {
	ListenAddr        string        `mapstructure:"listen_addr"`
	DatabasePath      string        `mapstructure:"database_path"`
	CachePath         string        `mapstructure:"cache_path"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxItemsPerSource int           `mapstructure:"max_items_per_source"`
	MaxItemsPerRegion int           `mapstructure:"max_items_per_region"`
	SummarySentences  int           `mapstructure:"summary_sentences"`
	Regions           []Region      `mapstructure:"regions"`
}

// Load reads the YAML config at path on top of built-in defaults. An empty
// path loads defaults only. When the file defines no feed catalog, the
// built-in one is used.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", "localhost:8080")
	v.SetDefault("database_path", "news.db")
	v.SetDefault("cache_path", "source_cache.db")
	v.SetDefault("cache_ttl", "300s")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("max_items_per_source", 5)
	v.SetDefault("max_items_per_region", 20)
	v.SetDefault("summary_sentences", 2)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Regions) == 0 {
		regions, err := DefaultRegions()
		if err != nil {
			return nil, err
		}
		cfg.Regions = regions
	}
	return &cfg, nil
}
