// Package config centralizes application configuration loaded from YAML
// files and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	Slack   Slack   `mapstructure:"slack"`
	AI      AI      `mapstructure:"ai"`
	Fetch   Fetch   `mapstructure:"fetch"`
	Search  Search  `mapstructure:"search"`
	Digest  Digest  `mapstructure:"digest"`
	Server  Server  `mapstructure:"server"`
	Store   Store   `mapstructure:"store"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug   bool   `mapstructure:"debug"`
	DataDir string `mapstructure:"data_dir"`
}

// Slack holds Slack API configuration
type Slack struct {
	BotToken       string `mapstructure:"bot_token"`
	SigningSecret  string `mapstructure:"signing_secret"`
	DefaultChannel string `mapstructure:"default_channel"`
}

// AI holds LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// Fetch holds candidate-source configuration
type Fetch struct {
	PerSourceLimit int    `mapstructure:"per_source_limit"`
	Timeout        string `mapstructure:"timeout"`
	NewsAPIKey     string `mapstructure:"newsapi_key"`
	UserAgent      string `mapstructure:"user_agent"`
}

// Search holds web-search provider configuration
type Search struct {
	DefaultProvider string          `mapstructure:"default_provider"`
	MaxResults      int             `mapstructure:"max_results"`
	Timeout         string          `mapstructure:"timeout"`
	Providers       SearchProviders `mapstructure:"providers"`
}

// SearchProviders holds configuration for all search providers
type SearchProviders struct {
	Google     GoogleSearchConfig `mapstructure:"google"`
	DuckDuckGo DuckDuckGoConfig   `mapstructure:"duckduckgo"`
}

// GoogleSearchConfig holds Google Custom Search configuration
type GoogleSearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	SearchID string `mapstructure:"search_id"`
}

// DuckDuckGoConfig holds DuckDuckGo configuration
type DuckDuckGoConfig struct {
	RateLimit string `mapstructure:"rate_limit"`
}

// Digest holds curation configuration
type Digest struct {
	TargetCount   int    `mapstructure:"target_count"`
	MinGuaranteed int    `mapstructure:"min_guaranteed"`
	QualityCutoff int    `mapstructure:"quality_cutoff"`
	SendHour      int    `mapstructure:"send_hour"`
	Timezone      string `mapstructure:"timezone"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string     `mapstructure:"host"`
	Port         int        `mapstructure:"port"`
	ReadTimeout  string     `mapstructure:"read_timeout"`
	WriteTimeout string     `mapstructure:"write_timeout"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig holds CORS configuration for the HTTP server
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Store holds state-store configuration
type Store struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
}

// Logging holds logging configuration
type Logging struct {
	Level string `mapstructure:"level"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".pulsebot")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.data_dir", ".pulsebot")

	viper.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.gemini.max_tokens", 2000)
	viper.SetDefault("ai.gemini.temperature", 0.7)

	viper.SetDefault("fetch.per_source_limit", 15)
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.user_agent", "pulsebot/1.0 (news digest bot)")

	viper.SetDefault("search.default_provider", "duckduckgo")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.providers.duckduckgo.rate_limit", "2s")

	viper.SetDefault("digest.target_count", 5)
	viper.SetDefault("digest.min_guaranteed", 3)
	viper.SetDefault("digest.quality_cutoff", 20)
	viper.SetDefault("digest.send_hour", 9)
	viper.SetDefault("digest.timezone", "Local")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.cors.enabled", false)

	viper.SetDefault("store.driver", "memory")

	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables binds specific environment variables to config keys
func bindEnvironmentVariables() {
	_ = viper.BindEnv("slack.bot_token", "SLACK_BOT_TOKEN")
	_ = viper.BindEnv("slack.signing_secret", "SLACK_SIGNING_SECRET")
	_ = viper.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY")
	_ = viper.BindEnv("fetch.newsapi_key", "NEWSAPI_KEY")
	_ = viper.BindEnv("search.providers.google.api_key", "GOOGLE_SEARCH_API_KEY")
	_ = viper.BindEnv("search.providers.google.search_id", "GOOGLE_SEARCH_ID")
}

// GetTimeout parses a duration string from config with a fallback default
func GetTimeout(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
