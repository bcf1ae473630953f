package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type AnalysisConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ScoringConfig struct {
	Weights            ScoringWeights `yaml:"weights"`
	ConfigCacheTTLSecs int            `yaml:"config_cache_ttl_secs"`
	RescoreConcurrency int            `yaml:"rescore_concurrency"`
}

type ScoringWeights struct {
	BusinessIdea float64 `yaml:"business_idea"`
	Financials   float64 `yaml:"financials"`
	Team         float64 `yaml:"team"`
	Traction     float64 `yaml:"traction"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ConfigCacheTTL() time.Duration {
	return time.Duration(c.Scoring.ConfigCacheTTLSecs) * time.Second
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				BusinessIdea: 0.30,
				Financials:   0.25,
				Team:         0.25,
				Traction:     0.20,
			},
			ConfigCacheTTLSecs: 300,
			RescoreConcurrency: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AURICITE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("AURICITE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("AURICITE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("AURICITE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("AURICITE_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("AURICITE_ANTHROPIC_API_KEY"); v != "" {
		cfg.Analysis.APIKey = v
	}
	if v := os.Getenv("AURICITE_ANALYSIS_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}
	if v := os.Getenv("AURICITE_CONFIG_CACHE_TTL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.ConfigCacheTTLSecs = n
		}
	}
	if v := os.Getenv("AURICITE_RESCORE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.RescoreConcurrency = n
		}
	}
	if v := os.Getenv("AURICITE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
