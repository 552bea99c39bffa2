// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	CSV            CSVConfig            `mapstructure:"csv" yaml:"csv"`
	AI             AIConfig             `mapstructure:"ai" yaml:"ai"`
	Embedding      EmbeddingConfig      `mapstructure:"embedding" yaml:"embedding"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Memory         MemoryConfig         `mapstructure:"memory" yaml:"memory"`
	Upload         UploadConfig         `mapstructure:"upload" yaml:"upload"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// AIConfig controls the LLM tier. Enabled is the initial state of the admin switch.
type AIConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Model             string `mapstructure:"model" yaml:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// EmbeddingConfig selects the embedding provider: "hash" runs locally, "gemini" calls the API.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"`
	Model     string `mapstructure:"model" yaml:"model"`
	Dimension int    `mapstructure:"dimension" yaml:"dimension"`
}

type CategorizationConfig struct {
	CategoriesFile   string  `mapstructure:"categories_file" yaml:"categories_file"`
	KeywordThreshold float64 `mapstructure:"keyword_threshold" yaml:"keyword_threshold"`
	VectorThreshold  float64 `mapstructure:"vector_threshold" yaml:"vector_threshold"`
	MemoryLimit      int     `mapstructure:"memory_limit" yaml:"memory_limit"`
	MemoryThreshold  float64 `mapstructure:"memory_threshold" yaml:"memory_threshold"`
}

// MemoryConfig points at an optional YAML snapshot of the memory store.
type MemoryConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type UploadConfig struct {
	MaxFileSize    int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	PhoneScanLimit int   `mapstructure:"phone_scan_limit" yaml:"phone_scan_limit"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.upi-ledger")
	v.AddConfigPath(".upi-ledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed variables shared with the hosted deployment
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("ai.enabled", "LEDGER_AI_ENABLED", "GEMINI_ENABLED"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_ENABLED environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("embedding.provider", "hash")
	v.SetDefault("embedding.model", "text-embedding-004")
	v.SetDefault("embedding.dimension", 384)

	v.SetDefault("categorization.categories_file", "")
	v.SetDefault("categorization.keyword_threshold", 0.3)
	v.SetDefault("categorization.vector_threshold", 0.5)
	v.SetDefault("categorization.memory_limit", 3)
	v.SetDefault("categorization.memory_threshold", 0.6)

	v.SetDefault("memory.file", "")

	v.SetDefault("upload.max_file_size", 10*1024*1024)
	v.SetDefault("upload.phone_scan_limit", 1000)

	v.SetDefault("server.addr", ":8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	switch config.Embedding.Provider {
	case "hash":
		if config.Embedding.Dimension < 16 {
			return fmt.Errorf("embedding.dimension must be at least 16, got: %d", config.Embedding.Dimension)
		}
	case "gemini":
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required for the gemini embedding provider")
		}
	default:
		return fmt.Errorf("invalid embedding provider: %s (must be 'hash' or 'gemini')", config.Embedding.Provider)
	}

	for name, value := range map[string]float64{
		"categorization.keyword_threshold": config.Categorization.KeywordThreshold,
		"categorization.vector_threshold":  config.Categorization.VectorThreshold,
		"categorization.memory_threshold":  config.Categorization.MemoryThreshold,
	} {
		if value < 0.0 || value > 1.0 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got: %f", name, value)
		}
	}

	if config.Categorization.MemoryLimit < 0 {
		return fmt.Errorf("categorization.memory_limit must not be negative, got: %d", config.Categorization.MemoryLimit)
	}

	if config.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive, got: %d", config.Upload.MaxFileSize)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
