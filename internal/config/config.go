package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Store struct {
		Backend    string `yaml:"backend"` // csv | sqlite
		DataDir    string `yaml:"data_dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Analysis struct {
		PeriodDays int           `yaml:"period_days"`
		CacheTTL   time.Duration `yaml:"cache_ttl"` // negative disables the cache
	} `yaml:"analysis"`
	Watchlist struct {
		Symbols []string `yaml:"symbols"`
	} `yaml:"watchlist"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron  string `yaml:"digest_cron"`
		CollectCron string `yaml:"collect_cron"`
	} `yaml:"schedule"`
	Collector struct {
		Days int `yaml:"days"`
	} `yaml:"collector"`
	Log struct {
		Level      string `yaml:"level"`
		FilePath   string `yaml:"file_path"`
		MaxSize    int    `yaml:"max_size"`
		MaxAge     int    `yaml:"max_age"`
		MaxBackups int    `yaml:"max_backups"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults cover every field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Store.DataDir = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist.Symbols = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		c.Schedule.DigestCron = v
	}
	if v := os.Getenv("CRON_COLLECT"); v != "" {
		c.Schedule.CollectCron = v
	}
	if v := os.Getenv("ANALYSIS_PERIOD_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ANALYSIS_PERIOD_DAYS: %w", err)
		}
		c.Analysis.PeriodDays = n
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Analysis.CacheTTL = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = BackendCSV
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data/stock_data"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/market_advisor.db"
	}
	if c.Analysis.PeriodDays == 0 {
		c.Analysis.PeriodDays = 30
	}
	if c.Analysis.CacheTTL == 0 {
		c.Analysis.CacheTTL = time.Hour
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 30 8 * * *"
	}
	if c.Schedule.CollectCron == "" {
		c.Schedule.CollectCron = "0 0 22 * * *"
	}
	if c.Collector.Days == 0 {
		c.Collector.Days = 365
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 50
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 30
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
}

// Validate checks the fields every subcommand depends on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendCSV:
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendCSV, BackendSQLite, c.Store.Backend)
	}
	if c.Analysis.PeriodDays <= 0 {
		return fmt.Errorf("analysis.period_days must be positive")
	}
	if c.Collector.Days <= 0 {
		return fmt.Errorf("collector.days must be positive")
	}
	return nil
}

// ValidateServe additionally requires what the long-running bot needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("watchlist.symbols must not be empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
