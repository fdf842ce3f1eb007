// Package config loads and validates the application configuration from
// environment variables. The resulting Config struct is built once at process
// start and passed into component constructors; nothing here is global.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds every tunable the pipeline needs. Callers load a .env file
// (godotenv) before calling Load if they want file-based overrides.
type Config struct {
	// EDINET API
	EdinetAPIKey   string `validate:"required,min=10"`
	MaxRetries     int    `validate:"min=1,max=10"`
	DelaySeconds   int    `validate:"min=1,max=60"`
	TimeoutSeconds int    `validate:"min=1,max=300"`

	// Search and processing
	DaysBack      int `validate:"min=1,max=365"`
	AnalysisLimit int `validate:"min=1,max=100"`

	// Cache
	CacheEnabled      bool
	CacheDir          string
	CacheTTLFilings   time.Duration
	CacheTTLDocuments time.Duration

	// Filesystem
	DownloadDir string

	// LLM analysis (optional; analysis is skipped without a key)
	LLMAPIKey        string `validate:"omitempty,min=10"`
	LLMModel         string `validate:"required"`
	LLMFallbackModel string `validate:"required"`
	AnalysisTypes    []string

	// Persistence (optional)
	DatabaseURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// Defaults mirrored from the EDINET polling cadence: low call volume,
// day-granularity queries.
const (
	defaultMaxRetries     = 3
	defaultDelaySeconds   = 5
	defaultTimeoutSeconds = 30
	defaultDaysBack       = 7
	defaultAnalysisLimit  = 5

	defaultCacheDir          = ".cache"
	defaultCacheTTLFilings   = time.Hour
	defaultCacheTTLDocuments = 24 * time.Hour

	defaultDownloadDir = "./downloads"

	defaultLLMModel         = "gpt-4o"
	defaultLLMFallbackModel = "gpt-4-turbo"
)

// Load reads the environment, applies defaults, and validates the result.
func Load() (*Config, error) {
	maxRetries, err := intEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, err
	}
	delaySeconds, err := intEnv("DELAY_SECONDS", defaultDelaySeconds)
	if err != nil {
		return nil, err
	}
	timeoutSeconds, err := intEnv("REQUEST_TIMEOUT_SECONDS", defaultTimeoutSeconds)
	if err != nil {
		return nil, err
	}
	daysBack, err := intEnv("DAYS_BACK", defaultDaysBack)
	if err != nil {
		return nil, err
	}
	analysisLimit, err := intEnv("ANALYSIS_LIMIT", defaultAnalysisLimit)
	if err != nil {
		return nil, err
	}
	ttlFilings, err := durationEnv("CACHE_TTL_FILINGS", defaultCacheTTLFilings)
	if err != nil {
		return nil, err
	}
	ttlDocuments, err := durationEnv("CACHE_TTL_DOCUMENTS", defaultCacheTTLDocuments)
	if err != nil {
		return nil, err
	}

	llmKey := os.Getenv("LLM_API_KEY")
	if llmKey == "" {
		llmKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg := &Config{
		EdinetAPIKey:      strings.TrimSpace(os.Getenv("EDINET_API_KEY")),
		MaxRetries:        maxRetries,
		DelaySeconds:      delaySeconds,
		TimeoutSeconds:    timeoutSeconds,
		DaysBack:          daysBack,
		AnalysisLimit:     analysisLimit,
		CacheEnabled:      boolEnv("CACHE_ENABLED", true),
		CacheDir:          stringEnv("CACHE_DIR", defaultCacheDir),
		CacheTTLFilings:   ttlFilings,
		CacheTTLDocuments: ttlDocuments,
		DownloadDir:       stringEnv("DOWNLOAD_DIR", defaultDownloadDir),
		LLMAPIKey:         strings.TrimSpace(llmKey),
		LLMModel:          stringEnv("LLM_MODEL", defaultLLMModel),
		LLMFallbackModel:  stringEnv("LLM_FALLBACK_MODEL", defaultLLMFallbackModel),
		AnalysisTypes:     listEnv("ANALYSIS_TYPES", []string{"one_line_summary", "executive_summary"}),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          stringEnv("LOG_LEVEL", "info"),
		LogFormat:         stringEnv("LOG_FORMAT", "console"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Warnings reports missing optional configuration that degrades behavior
// without being fatal.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.LLMAPIKey == "" && os.Getenv("GEMINI_API_KEY") == "" {
		warnings = append(warnings, "LLM_API_KEY (or OPENAI_API_KEY / GEMINI_API_KEY) not set; LLM analysis will be disabled")
	}
	if c.DatabaseURL == "" {
		warnings = append(warnings, "DATABASE_URL not set; processed records will not be persisted")
	}
	return warnings
}

func stringEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %s must be an integer, got %q", name, v)
	}
	return n, nil
}

// durationEnv accepts plain seconds ("3600") or Go duration syntax ("1h").
func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid configuration: %s must be positive, got %q", name, v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid configuration: %s must be seconds or a duration, got %q", name, v)
	}
	return d, nil
}

func boolEnv(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func listEnv(name string, fallback []string) []string {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
