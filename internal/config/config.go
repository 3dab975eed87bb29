package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Trend sources
	TrendsRegion     string // trends24.in region path segment, e.g. "india"
	RedditListing    string // subreddit listing used for trends, e.g. "popular"
	SourceTimeout    time.Duration
	FallbackKeywords []string

	// News search (Google News RSS)
	NewsLanguage string // hl parameter, e.g. "en-IN"
	NewsCountry  string // gl parameter, e.g. "IN"
	NewsEdition  string // ceid parameter, e.g. "IN:en"

	// Article resolution thresholds
	SearchCandidates   int // max RSS entries considered per keyword
	ScrapeCandidates   int // entries attempted with a full page fetch
	MinParagraphLength int
	MaxParagraphs      int
	MinContentLength   int
	SearchTimeout      time.Duration
	ArticleTimeout     time.Duration

	// Summarizer
	GeminiAPIKey    string
	GeminiModel     string
	SummarizerInput int // character budget submitted to the LLM
	LLMTimeout      time.Duration

	// Feed
	FeedDefaultLimit int
	CacheTTL         time.Duration
	RedisAddr        string // optional; in-memory cache when empty

	// Interaction store
	DatabasePath string

	// Snapshot archive
	StorageAccount   string // optional Azure account; local dir when empty
	StorageContainer string
	SnapshotDir      string

	// Scheduled refresh + digest
	RefreshSchedule string // "hourly" or "daily"
	TimeZone        string
	DigestEmail     string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	TeamsWebhookURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		TrendsRegion:  getEnv("TRENDS_REGION", "india"),
		RedditListing: getEnv("REDDIT_LISTING", "popular"),
		SourceTimeout: getDurationEnv("SOURCE_TIMEOUT", 10*time.Second),
		FallbackKeywords: getSliceEnv("FALLBACK_KEYWORDS", []string{
			"#India", "#Tech", "#Bollywood", "#Cricket", "#News",
		}),

		NewsLanguage: getEnv("NEWS_LANGUAGE", "en-IN"),
		NewsCountry:  getEnv("NEWS_COUNTRY", "IN"),
		NewsEdition:  getEnv("NEWS_EDITION", "IN:en"),

		SearchCandidates:   getIntEnv("SEARCH_CANDIDATES", 10),
		ScrapeCandidates:   getIntEnv("SCRAPE_CANDIDATES", 3),
		MinParagraphLength: getIntEnv("MIN_PARAGRAPH_LENGTH", 25),
		MaxParagraphs:      getIntEnv("MAX_PARAGRAPHS", 20),
		MinContentLength:   getIntEnv("MIN_CONTENT_LENGTH", 200),
		SearchTimeout:      getDurationEnv("SEARCH_TIMEOUT", 8*time.Second),
		ArticleTimeout:     getDurationEnv("ARTICLE_TIMEOUT", 5*time.Second),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		SummarizerInput: getIntEnv("SUMMARIZER_INPUT", 4000),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 20*time.Second),

		FeedDefaultLimit: getIntEnv("FEED_DEFAULT_LIMIT", 3),
		CacheTTL:         getDurationEnv("CACHE_TTL", 5*time.Minute),
		RedisAddr:        getEnv("REDIS_ADDR", ""),

		DatabasePath: getEnv("DATABASE_PATH", "data/newsloom.db"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "trend-snapshots"),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data/snapshots"),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "hourly"),
		TimeZone:        getEnv("TIMEZONE", "UTC"),
		DigestEmail:     getEnv("DIGEST_EMAIL", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getIntEnv("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		TeamsWebhookURL: getEnv("TEAMS_WEBHOOK_URL", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RefreshSchedule != "hourly" && c.RefreshSchedule != "daily" {
		return fmt.Errorf("REFRESH_SCHEDULE must be 'hourly' or 'daily'")
	}

	if c.FeedDefaultLimit < 1 {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be positive")
	}

	if c.ScrapeCandidates > c.SearchCandidates {
		return fmt.Errorf("SCRAPE_CANDIDATES cannot exceed SEARCH_CANDIDATES")
	}

	if c.DigestEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when DIGEST_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
