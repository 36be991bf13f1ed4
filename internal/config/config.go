package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the falcomd release.
const Version = "0.3.0"

// Config holds all falcomd configuration.
type Config struct {
	LogLevel    string
	LogFormat   string // "text", "json"
	VirusTotal  VirusTotalConfig
	OpenAI      OpenAIConfig
	HTTPTimeout time.Duration // per request, for both APIs
	StepSummary string
}

// VirusTotalConfig holds reputation lookup settings.
type VirusTotalConfig struct {
	APIKey        string
	BaseURL       string
	RatePerMinute int
}

// OpenAIConfig holds summary generation settings.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		LogLevel:  getenv("FALCOMD_LOG_LEVEL", "info"),
		LogFormat: getenv("FALCOMD_LOG_FORMAT", "text"),
		VirusTotal: VirusTotalConfig{
			APIKey:        os.Getenv("VT_API_KEY"),
			BaseURL:       getenv("VT_API_URL", "https://www.virustotal.com/api/v3/"),
			RatePerMinute: getenvInt("VT_RATE_PER_MINUTE", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getenv("FALCOMD_MODEL", "gpt-4o-mini"),
		},
		HTTPTimeout: time.Duration(getenvInt("FALCOMD_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		StepSummary: os.Getenv("GITHUB_STEP_SUMMARY"),
	}
}

// Validate checks settings shared by every command and returns all
// problems found.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat))
	}
	if c.VirusTotal.RatePerMinute < 0 {
		errs = append(errs, fmt.Errorf("VT_RATE_PER_MINUTE must be >= 0, got %d", c.VirusTotal.RatePerMinute))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FALCOMD_HTTP_TIMEOUT_SECONDS must be > 0, got %s", c.HTTPTimeout))
	}
	return errors.Join(errs...)
}

// ValidateReputation checks the settings the reputation command needs.
func (c Config) ValidateReputation() error {
	if c.VirusTotal.APIKey == "" {
		return errors.New("VT_API_KEY is required for reputation lookups")
	}
	return nil
}

// ValidateSummarize checks the settings the summarize command needs.
func (c Config) ValidateSummarize() error {
	var errs []error
	if c.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required for summaries"))
	}
	if c.OpenAI.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
