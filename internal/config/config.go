package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/showroomhq/advisor/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Events    EventsConfig    `yaml:"events"`
	Inventory InventoryConfig `yaml:"inventory"`
	Recommend RecommendConfig `yaml:"recommend"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type InventoryConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	SyncIntervalMs int    `yaml:"sync_interval_ms"`
}

type RecommendConfig struct {
	ConsistencyThreshold float64           `yaml:"consistency_threshold"`
	DefaultLimit         int               `yaml:"default_limit"`
	MaxLimit             int               `yaml:"max_limit"`
	StatsIntervalMs      int               `yaml:"stats_interval_ms"`
	Directions           map[string]string `yaml:"directions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Inventory.SyncIntervalMs) * time.Millisecond
}

func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Recommend.StatsIntervalMs) * time.Millisecond
}

// Directions resolves the per-criterion ranking directions: all cost unless
// overridden in the recommend.directions section.
func (c *Config) Directions() []scoring.Direction {
	directions := scoring.DefaultDirections()
	if len(c.Recommend.Directions) == 0 {
		return directions
	}
	for i, criterion := range scoring.Criteria() {
		if raw, ok := c.Recommend.Directions[string(criterion)]; ok {
			if d, err := scoring.ParseDirection(raw); err == nil {
				directions[i] = d
			}
		}
	}
	return directions
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Recommend: RecommendConfig{
			ConsistencyThreshold: 0.10,
			DefaultLimit:         10,
			MaxLimit:             50,
			StatsIntervalMs:      60000,
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

	for criterion, raw := range cfg.Recommend.Directions {
		if _, err := scoring.ParseDirection(raw); err != nil {
			return nil, fmt.Errorf("recommend.directions.%s: %w", criterion, err)
		}
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADVISOR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ADVISOR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ADVISOR_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ADVISOR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ADVISOR_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("ADVISOR_INVENTORY_URL"); v != "" {
		cfg.Inventory.URL = v
	}
	if v := os.Getenv("ADVISOR_INVENTORY_TOKEN"); v != "" {
		cfg.Inventory.Token = v
	}
	if v := os.Getenv("ADVISOR_SYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Inventory.SyncIntervalMs = n
		}
	}
	if v := os.Getenv("ADVISOR_CONSISTENCY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Recommend.ConsistencyThreshold = f
		}
	}
	if v := os.Getenv("ADVISOR_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.DefaultLimit = n
		}
	}
	if v := os.Getenv("ADVISOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ADVISOR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
