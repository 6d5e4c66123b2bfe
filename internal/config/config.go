// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Quality   QualityConfig   `yaml:"quality" mapstructure:"quality"`
	Estimator EstimatorConfig `yaml:"estimator" mapstructure:"estimator"`
	Consensus ConsensusConfig `yaml:"consensus" mapstructure:"consensus"`
	Predictor PredictorConfig `yaml:"predictor" mapstructure:"predictor"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FetchConfig controls the fetch strategy chain.
type FetchConfig struct {
	AttemptTimeoutSecs int    `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	OverallTimeoutSecs int    `yaml:"overall_timeout_secs" mapstructure:"overall_timeout_secs"`
	RetriesPerStrategy int    `yaml:"retries_per_strategy" mapstructure:"retries_per_strategy"`
	InitialBackoffMs   int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs       int    `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	UserAgent          string `yaml:"user_agent" mapstructure:"user_agent"`
	MobileUserAgent    string `yaml:"mobile_user_agent" mapstructure:"mobile_user_agent"`
	MaxBodyBytes       int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RateLimitConfig controls the shared per-host token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// QualityConfig holds the validator weights. Weights are tunable
// configuration, not business logic.
type QualityConfig struct {
	Weights QualityWeights `yaml:"weights" mapstructure:"weights"`
}

// QualityWeights holds the relative weight of each quality dimension.
type QualityWeights struct {
	Completeness float64 `yaml:"completeness" mapstructure:"completeness"`
	Accuracy     float64 `yaml:"accuracy" mapstructure:"accuracy"`
	Consistency  float64 `yaml:"consistency" mapstructure:"consistency"`
	Outlier      float64 `yaml:"outlier" mapstructure:"outlier"`
}

// EstimatorConfig controls the rule-based carbon estimator.
type EstimatorConfig struct {
	MaterialTablePath string  `yaml:"material_table_path" mapstructure:"material_table_path"`
	DefaultMaterial   string  `yaml:"default_material" mapstructure:"default_material"`
	DefaultDistanceKM float64 `yaml:"default_distance_km" mapstructure:"default_distance_km"`
	Destination       string  `yaml:"destination" mapstructure:"destination"`
}

// ConsensusConfig controls grade reconciliation.
type ConsensusConfig struct {
	ModelConfidenceThreshold float64 `yaml:"model_confidence_threshold" mapstructure:"model_confidence_threshold"`
}

// PredictorConfig holds the external model predictor endpoint settings.
type PredictorConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Key         string `yaml:"key" mapstructure:"key"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SearchConfig holds the search API settings used by the search-mediated
// fetch strategy.
type SearchConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Key     string `yaml:"key" mapstructure:"key"`
}

// StoreConfig configures the analysis store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARBON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("fetch.attempt_timeout_secs", 15)
	v.SetDefault("fetch.overall_timeout_secs", 120)
	v.SetDefault("fetch.retries_per_strategy", 2)
	v.SetDefault("fetch.initial_backoff_ms", 500)
	v.SetDefault("fetch.max_backoff_ms", 10000)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("fetch.mobile_user_agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	v.SetDefault("fetch.max_body_bytes", 2*1024*1024)
	v.SetDefault("rate_limit.requests_per_second", 0.5)
	v.SetDefault("rate_limit.burst", 1)
	v.SetDefault("quality.weights.completeness", 0.35)
	v.SetDefault("quality.weights.accuracy", 0.30)
	v.SetDefault("quality.weights.consistency", 0.20)
	v.SetDefault("quality.weights.outlier", 0.15)
	v.SetDefault("estimator.default_material", "mixed")
	v.SetDefault("estimator.default_distance_km", 5000)
	v.SetDefault("estimator.destination", "united states")
	v.SetDefault("consensus.model_confidence_threshold", 0.8)
	v.SetDefault("predictor.timeout_secs", 10)
	v.SetDefault("search.base_url", "https://s.jina.ai")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "carbon.db")
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
