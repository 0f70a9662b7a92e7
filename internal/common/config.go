package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Security    SecurityConfig  `toml:"security"`
	AI          AIConfig        `toml:"ai"`
	Research    ResearchConfig  `toml:"research"`
	Publish     PublishConfig   `toml:"publish"`
	Media       MediaConfig     `toml:"media"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	WebSocket   WebSocketConfig `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// SecurityConfig holds the credential-store encryption settings.
type SecurityConfig struct {
	EncryptionKey string `toml:"encryption_key"` // 32-byte key for AES-256-GCM credential encryption
}

// AIConfig controls provider selection and request shaping for AI calls.
type AIConfig struct {
	PrimaryProvider  string  `toml:"primary_provider"`  // Preferred provider when a user has several configured
	FallbackProvider string  `toml:"fallback_provider"` // Used when the primary has no integration
	GeminiModel      string  `toml:"gemini_model"`
	OpenAIModel      string  `toml:"openai_model"`
	ClaudeModel      string  `toml:"claude_model"`
	MaxTokens        int     `toml:"max_tokens"`
	Temperature      float32 `toml:"temperature"`
	RequestTimeout   string  `toml:"request_timeout"` // e.g. "90s"
}

// GetRequestTimeout returns the parsed AI request timeout.
func (c *AIConfig) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.RequestTimeout); err == nil && d > 0 {
		return d
	}
	return 90 * time.Second
}

// ResearchConfig controls the research aggregator's source endpoints.
type ResearchConfig struct {
	DiscussionEndpoint string `toml:"discussion_endpoint"` // Forum/discussion search API base URL
	TrendsEndpoint     string `toml:"trends_endpoint"`     // Trend-signal API base URL
	SearchEndpoint     string `toml:"search_endpoint"`     // Search-result mining base URL
	RequestTimeout     string `toml:"request_timeout"`     // Per-source HTTP timeout, e.g. "20s"
	MaxDiscussions     int    `toml:"max_discussions"`     // Max discussion posts per bundle
}

// GetRequestTimeout returns the parsed per-source timeout.
func (c *ResearchConfig) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.RequestTimeout); err == nil && d > 0 {
		return d
	}
	return 20 * time.Second
}

// PublishConfig controls publish job validation and execution.
type PublishConfig struct {
	MaxPendingJobsPerUser int    `toml:"max_pending_jobs_per_user"` // Ceiling on pending+running jobs per user
	RequestTimeout        string `toml:"request_timeout"`           // Outbound publish HTTP timeout
}

// GetRequestTimeout returns the parsed publish HTTP timeout.
func (c *PublishConfig) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(c.RequestTimeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// MediaConfig controls media generation job polling.
type MediaConfig struct {
	PollInterval    string `toml:"poll_interval"`     // e.g. "10s"
	MaxPollAttempts int    `toml:"max_poll_attempts"` // Attempts before the job fails with a polling timeout
	AssetDir        string `toml:"asset_dir"`         // Local directory for generated audio assets
}

// GetPollInterval returns the parsed media polling interval.
func (c *MediaConfig) GetPollInterval() time.Duration {
	if d, err := time.ParseDuration(c.PollInterval); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// SchedulerConfig controls the scheduled-publish sweep.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron expression for the due-job sweep
}

// WebSocketConfig controls realtime event delivery.
type WebSocketConfig struct {
	AllowedEvents     []string          `toml:"allowed_events"`     // Whitelist of event types to broadcast (empty = allow all)
	ThrottleIntervals map[string]string `toml:"throttle_intervals"` // Event type -> min interval, e.g. "1s"
}

// DefaultConfig returns the built-in configuration defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/plume",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		AI: AIConfig{
			PrimaryProvider:  "gemini",
			FallbackProvider: "openai",
			GeminiModel:      "gemini-2.0-flash",
			OpenAIModel:      "gpt-4o-mini",
			ClaudeModel:      "claude-sonnet-4-20250514",
			MaxTokens:        8192,
			Temperature:      0.7,
			RequestTimeout:   "90s",
		},
		Research: ResearchConfig{
			DiscussionEndpoint: "https://www.reddit.com",
			TrendsEndpoint:     "https://trends.google.com",
			SearchEndpoint:     "https://www.google.com/search",
			RequestTimeout:     "20s",
			MaxDiscussions:     50,
		},
		Publish: PublishConfig{
			MaxPendingJobsPerUser: 10,
			RequestTimeout:        "30s",
		},
		Media: MediaConfig{
			PollInterval:    "10s",
			MaxPollAttempts: 60,
			AssetDir:        "./data/assets",
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Schedule: "@every 1m",
		},
		WebSocket: WebSocketConfig{
			ThrottleIntervals: map[string]string{},
		},
	}
}

// LoadFromFiles loads configuration from defaults, then applies each config file in
// order (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies PLUME_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PLUME_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("PLUME_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("PLUME_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("PLUME_STORAGE_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("PLUME_ENCRYPTION_KEY"); v != "" {
		config.Security.EncryptionKey = v
	}
	if v := os.Getenv("PLUME_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Storage.Badger.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Publish.MaxPendingJobsPerUser <= 0 {
		return fmt.Errorf("max_pending_jobs_per_user must be positive")
	}
	if c.Media.MaxPollAttempts <= 0 {
		return fmt.Errorf("max_poll_attempts must be positive")
	}
	if c.Security.EncryptionKey != "" && len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("encryption_key must be exactly 32 bytes, got %d", len(c.Security.EncryptionKey))
	}
	return nil
}
