package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FALCOMD_LOG_LEVEL", "FALCOMD_LOG_FORMAT", "FALCOMD_MODEL",
		"VT_API_KEY", "VT_API_URL", "VT_RATE_PER_MINUTE",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "GITHUB_STEP_SUMMARY",
		"FALCOMD_HTTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("expected default log format 'text', got %q", cfg.LogFormat)
	}
	if cfg.VirusTotal.BaseURL != "https://www.virustotal.com/api/v3/" {
		t.Fatalf("unexpected VT base URL %q", cfg.VirusTotal.BaseURL)
	}
	if cfg.VirusTotal.RatePerMinute != 0 {
		t.Fatalf("expected unlimited rate, got %d", cfg.VirusTotal.RatePerMinute)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected OpenAI base URL %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model 'gpt-4o-mini', got %q", cfg.OpenAI.Model)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default HTTP timeout 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.StepSummary != "" {
		t.Fatalf("expected empty step summary path, got %q", cfg.StepSummary)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("VT_API_KEY", "vt_123")
	t.Setenv("VT_API_URL", "http://localhost:9000/api/v3")
	t.Setenv("VT_RATE_PER_MINUTE", "4")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FALCOMD_MODEL", "gpt-4o")
	t.Setenv("GITHUB_STEP_SUMMARY", "/tmp/summary.md")
	t.Setenv("FALCOMD_HTTP_TIMEOUT_SECONDS", "5")

	cfg := Load()

	if cfg.VirusTotal.APIKey != "vt_123" {
		t.Fatalf("expected VT key 'vt_123', got %q", cfg.VirusTotal.APIKey)
	}
	if cfg.VirusTotal.BaseURL != "http://localhost:9000/api/v3" {
		t.Fatalf("unexpected VT base URL %q", cfg.VirusTotal.BaseURL)
	}
	if cfg.VirusTotal.RatePerMinute != 4 {
		t.Fatalf("expected rate 4, got %d", cfg.VirusTotal.RatePerMinute)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("unexpected OpenAI config %+v", cfg.OpenAI)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected HTTP timeout 5s, got %s", cfg.HTTPTimeout)
	}
	if cfg.StepSummary != "/tmp/summary.md" {
		t.Fatalf("unexpected step summary %q", cfg.StepSummary)
	}
}

// --- Validation tests ---

func validConfig() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		VirusTotal:  VirusTotalConfig{APIKey: "vt", BaseURL: "https://vt", RatePerMinute: 4},
		OpenAI:      OpenAIConfig{APIKey: "sk", BaseURL: "https://oai", Model: "gpt-4o-mini"},
		HTTPTimeout: 30 * time.Second,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected nil error for valid config, got: %v", err)
	}
	if err := cfg.ValidateReputation(); err != nil {
		t.Fatalf("unexpected reputation error: %v", err)
	}
	if err := cfg.ValidateSummarize(); err != nil {
		t.Fatalf("unexpected summarize error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "loud"
	cfg.LogFormat = "xml"
	cfg.VirusTotal.RatePerMinute = -1
	cfg.HTTPTimeout = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for multiple bad fields")
	}
	msg := err.Error()
	for _, want := range []string{"log level", "log format", "VT_RATE_PER_MINUTE", "FALCOMD_HTTP_TIMEOUT_SECONDS"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to mention %q, got: %v", want, msg)
		}
	}
}

func TestValidateReputation_MissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.VirusTotal.APIKey = ""
	err := cfg.ValidateReputation()
	if err == nil || !strings.Contains(err.Error(), "VT_API_KEY") {
		t.Fatalf("expected error mentioning VT_API_KEY, got: %v", err)
	}
}

func TestValidateSummarize_MissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""
	err := cfg.ValidateSummarize()
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("expected error mentioning OPENAI_API_KEY, got: %v", err)
	}
}

// --- getenvInt tests ---

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		set      bool
		fallback int
		want     int
	}{
		{"empty uses fallback", "", false, 1000, 1000},
		{"valid int", "500", true, 1000, 500},
		{"zero", "0", true, 1000, 0},
		{"invalid falls back", "abc", true, 1000, 1000},
		{"negative", "-1", true, 1000, -1},
	}

	const key = "FALCOMD_TEST_GETENVINT"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(key, tt.envVal)
			} else {
				os.Unsetenv(key)
			}
			got := getenvInt(key, tt.fallback)
			if got != tt.want {
				t.Errorf("getenvInt(%q, %d) = %d, want %d", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestVersion_IsSet(t *testing.T) {
	if Version == "" {
		t.Fatal("expected non-empty Version constant")
	}
}
