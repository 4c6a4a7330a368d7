package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the chatdb API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Hotels     HotelsConfig     `yaml:"hotels"`
	Redis      RedisConfig      `yaml:"redis"`
	Completion CompletionConfig `yaml:"completion"`
	Query      QueryConfig      `yaml:"query"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// MongoConfig holds the flight document store settings.
type MongoConfig struct {
	URI                string `yaml:"uri"`
	FallbackURI        string `yaml:"fallback_uri"`
	Database           string `yaml:"database"`
	FlightsCollection  string `yaml:"flights_collection"`
	SegmentsCollection string `yaml:"segments_collection"`
	ConnectTimeoutSec  int    `yaml:"connect_timeout_sec"`
}

// HotelsConfig holds the hotel review store settings.
type HotelsConfig struct {
	SQLitePath string `yaml:"sqlite_path"` // empty disables the hotel endpoints
}

// RedisConfig holds budget counter persistence settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"` // empty keeps budget counters in memory only
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	Optional         bool     `yaml:"optional"` // start without redis when it is unreachable
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// CompletionConfig holds the query generator settings.
type CompletionConfig struct {
	Enabled     bool         `yaml:"enabled"`
	Provider    string       `yaml:"provider"`
	BaseURL     string       `yaml:"base_url"`
	APIKey      string       `yaml:"api_key"`
	Model       string       `yaml:"model"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	MaxTokens   int          `yaml:"max_tokens"`
	Temperature float32      `yaml:"temperature"`
	Budget      BudgetConfig `yaml:"budget"`
}

// QueryConfig holds result size limits.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "flights"
	}
	if c.Mongo.ConnectTimeoutSec <= 0 {
		c.Mongo.ConnectTimeoutSec = 10
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = "ollama"
	}
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = "http://ollama:11434/v1"
	}
	if c.Completion.Model == "" {
		c.Completion.Model = "llama3"
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = 30
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 256
	}
	if c.Query.DefaultLimit <= 0 {
		c.Query.DefaultLimit = 20
	}
	if c.Query.MaxLimit <= 0 {
		c.Query.MaxLimit = 1000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("query.default_limit (%d) must not exceed query.max_limit (%d)",
			c.Query.DefaultLimit, c.Query.MaxLimit)
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("completion.temperature must be between 0 and 2, got %g", c.Completion.Temperature)
	}
	switch c.Completion.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"completion.budget.action must be \"warn\" or \"reject\", got %q", c.Completion.Budget.Action,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
