package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	newsreports "github.com/WSNBB0345/news-reports"
	"github.com/WSNBB0345/news-reports/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	cache, err := newsreports.NewBoltCache(cfg.CachePath, cfg.CacheTTL)
	if err != nil {
		logger.Fatal("failed to open source cache", zap.Error(err))
	}
	defer cache.Close()

	store, err := newsreports.NewStore(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open article store", zap.Error(err))
	}
	defer store.Close()

	fetcher := newsreports.NewFeedFetcher(cfg.RequestTimeout)
	aggregator := newsreports.NewAggregator(cfg, fetcher, cache, store, logger)
	server := newsreports.NewAPIServer(aggregator, store, logger)

	mux := http.NewServeMux()
	server.Routes(mux)

	logger.Info("serving news API",
		zap.String("addr", cfg.ListenAddr),
		zap.Int("regions", len(cfg.Regions)))
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
