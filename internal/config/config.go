package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	CatalogBaseURL  string
	CatalogCountry  string
	StorePath       string
	StoreFormat     string
	AssetsDir       string
	AssetsURLPrefix string
	ArticlesDir     string
	LedgerDBPath    string
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
	LookupCacheTTL  time.Duration
	CompositeGap    int
	// DownloadInterval is the minimum spacing between asset downloads. Zero disables pacing.
	DownloadInterval time.Duration
	CopyResetDelay   time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		CatalogBaseURL:  strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://itunes.apple.com"), "/"),
		CatalogCountry:  getEnv("CATALOG_COUNTRY", "us"),
		StorePath:       getEnv("STORE_PATH", "./data/apps.json"),
		StoreFormat:     strings.ToLower(getEnv("STORE_FORMAT", "json")),
		AssetsDir:       getEnv("ASSETS_DIR", "./public/appstore"),
		AssetsURLPrefix: "/" + strings.Trim(getEnv("ASSETS_URL_PREFIX", "/appstore"), "/"),
		ArticlesDir:     getEnv("ARTICLES_DIR", "./content/articles"),
		LedgerDBPath:    getEnv("LEDGER_DB_PATH", "./data/appshelf.db"),
		APIPort:         getEnv("API_PORT", "9000"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	switch cfg.StoreFormat {
	case "json", "ts":
	default:
		return nil, fmt.Errorf("STORE_FORMAT must be one of json, ts: got %q", cfg.StoreFormat)
	}

	if cfg.LookupCacheTTL, err = parseDuration("LOOKUP_CACHE_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.DownloadInterval, err = parseDuration("DOWNLOAD_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	if cfg.CopyResetDelay, err = parseDuration("COPY_RESET_DELAY", "2s"); err != nil {
		return nil, err
	}

	gap, err := strconv.Atoi(getEnv("COMPOSITE_GAP", "40"))
	if err != nil {
		return nil, fmt.Errorf("COMPOSITE_GAP must be a valid integer: %w", err)
	}
	if gap < 0 {
		return nil, fmt.Errorf("COMPOSITE_GAP must not be negative")
	}
	cfg.CompositeGap = gap

	// Create the data directories so the store and ledger can be opened.
	for _, p := range []string{cfg.StorePath, cfg.LedgerDBPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
