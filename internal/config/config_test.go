package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080},
		Mongo: MongoConfig{URI: "mongodb://localhost:27017"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Completion.Budget = BudgetConfig{DailyTokenLimit: 1000000, Action: "invalid_action"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `completion.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Completion.Budget.Action = action

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "port",
			mutate: func(c *Config) { c.HTTP.Port = 0 },
			want:   "http.port must be between 1 and 65535, got 0",
		},
		{
			name:   "mongo uri",
			mutate: func(c *Config) { c.Mongo.URI = "" },
			want:   "mongo.uri is required",
		},
		{
			name:   "limits",
			mutate: func(c *Config) { c.Query.DefaultLimit = 500; c.Query.MaxLimit = 100 },
			want:   "query.default_limit (500) must not exceed query.max_limit (100)",
		},
		{
			name:   "temperature",
			mutate: func(c *Config) { c.Completion.Temperature = 3 },
			want:   "completion.temperature must be between 0 and 2, got 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Mongo.Database != "flights" {
		t.Errorf("expected Database=flights, got %q", cfg.Mongo.Database)
	}
	if cfg.Mongo.ConnectTimeoutSec != 10 {
		t.Errorf("expected ConnectTimeoutSec=10, got %d", cfg.Mongo.ConnectTimeoutSec)
	}
	if cfg.Completion.Provider != "ollama" || cfg.Completion.Model != "llama3" {
		t.Errorf("expected ollama/llama3, got %s/%s", cfg.Completion.Provider, cfg.Completion.Model)
	}
	if cfg.Completion.BaseURL != "http://ollama:11434/v1" {
		t.Errorf("expected ollama base url, got %q", cfg.Completion.BaseURL)
	}
	if cfg.Completion.TimeoutSec != 30 {
		t.Errorf("expected TimeoutSec=30, got %d", cfg.Completion.TimeoutSec)
	}
	if cfg.Query.DefaultLimit != 20 || cfg.Query.MaxLimit != 1000 {
		t.Errorf("expected limits 20/1000, got %d/%d", cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Mongo:      MongoConfig{Database: "travel"},
		Completion: CompletionConfig{Model: "mistral", TimeoutSec: 5},
		Query:      QueryConfig{DefaultLimit: 10, MaxLimit: 50},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Mongo.Database != "travel" {
		t.Errorf("expected Database=travel, got %q", cfg.Mongo.Database)
	}
	if cfg.Completion.Model != "mistral" || cfg.Completion.TimeoutSec != 5 {
		t.Errorf("completion overridden: %+v", cfg.Completion)
	}
	if cfg.Query.MaxLimit != 50 {
		t.Errorf("expected MaxLimit=50, got %d", cfg.Query.MaxLimit)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHATDB_TEST_URI", "mongodb://db:27017")
	t.Setenv("CHATDB_TEST_EMPTY", "")

	in := []byte("a: ${CHATDB_TEST_URI}\nb: ${CHATDB_TEST_EMPTY:-fallback}\nc: ${CHATDB_TEST_UNSET}\n")
	want := "a: mongodb://db:27017\nb: fallback\nc: \n"

	if got := string(expandEnvVars(in)); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
mongo:
  uri: ${CHATDB_TEST_MONGO:-mongodb://localhost:27017}
completion:
  enabled: true
  budget:
    daily_token_limit: 5000
    action: reject
auth:
  api_keys: ["k1"]
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Completion.Enabled || cfg.Completion.Budget.DailyTokenLimit != 5000 {
		t.Errorf("completion = %+v", cfg.Completion)
	}
	if cfg.Mongo.Database != "flights" {
		t.Errorf("defaults not applied: database = %q", cfg.Mongo.Database)
	}
	if len(cfg.Auth.APIKeys) != 1 {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
