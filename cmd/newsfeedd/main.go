package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/feed"
	"github.com/newsloom/newsloom/internal/interactions"
	"github.com/newsloom/newsloom/internal/notifications"
	"github.com/newsloom/newsloom/internal/resolver"
	"github.com/newsloom/newsloom/internal/scheduler"
	"github.com/newsloom/newsloom/internal/server"
	"github.com/newsloom/newsloom/internal/sources"
	"github.com/newsloom/newsloom/internal/storage"
	"github.com/newsloom/newsloom/internal/summarize"
	"github.com/newsloom/newsloom/internal/trending"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting newsloom feed service")

	// Interaction store
	store, err := interactions.New(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to open interaction store: %v", err)
	}
	defer store.Close()

	// Trend sources and aggregator
	trendSources := []sources.Source{
		sources.NewTwitterTrendsSource(cfg.TrendsRegion, cfg.SourceTimeout),
		sources.NewRedditSource(cfg.RedditListing, cfg.SourceTimeout),
	}
	aggregator := trending.NewAggregator(trendSources, "twitter", cfg.FallbackKeywords, cfg.SourceTimeout)

	// Article resolution
	articleResolver := resolver.New(resolver.Options{
		SearchCandidates:   cfg.SearchCandidates,
		ScrapeCandidates:   cfg.ScrapeCandidates,
		MinParagraphLength: cfg.MinParagraphLength,
		MaxParagraphs:      cfg.MaxParagraphs,
		MinContentLength:   cfg.MinContentLength,
		SearchTimeout:      cfg.SearchTimeout,
		ArticleTimeout:     cfg.ArticleTimeout,
		Language:           cfg.NewsLanguage,
		Country:            cfg.NewsCountry,
		Edition:            cfg.NewsEdition,
	})

	// Summarizer; without an API key every summary is the local fallback
	var generator summarize.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := summarize.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logrus.Fatalf("Failed to create Gemini client: %v", err)
		}
		generator = gemini
	} else {
		logrus.Warn("GEMINI_API_KEY not set, summaries will use the degraded fallback")
	}
	summarizer := summarize.New(generator, cfg.SummarizerInput, cfg.LLMTimeout)

	// Feed cache
	var cache feed.Cache
	if cfg.RedisAddr != "" {
		cache = feed.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		logrus.Infof("Using Redis feed cache at %s", cfg.RedisAddr)
	} else {
		cache = feed.NewMemoryCache(cfg.CacheTTL)
	}

	assembler := feed.NewAssembler(aggregator, articleResolver, summarizer, store, cache)

	// Snapshot archive
	var archive storage.StorageInterface
	if cfg.StorageAccount != "" {
		archive, err = storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize snapshot archive: %v", err)
		}
	} else {
		archive, err = storage.NewLocalStorage(cfg.SnapshotDir)
		if err != nil {
			logrus.Fatalf("Failed to initialize snapshot directory: %v", err)
		}
	}

	// Scheduled refresh + digest
	notifier := notifications.NewService(cfg)
	refreshJob := trending.NewRefreshJob(aggregator, archive, notifier, 5*time.Minute)
	schedulerService := scheduler.NewService(cfg, refreshJob)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// HTTP server
	srv := server.New(assembler, aggregator, store, cfg.FeedDefaultLimit)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
