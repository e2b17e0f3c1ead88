package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int     `yaml:"port"`
		APIKey          string  `yaml:"api_key"`
		RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Telegram struct {
		Enabled     bool   `yaml:"enabled"`
		BotToken    string `yaml:"bot_token"`
		OwnerChatID int64  `yaml:"owner_chat_id"`
		Debug       bool   `yaml:"debug"`
	} `yaml:"telegram"`

	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
		SyncMinutes     int    `yaml:"sync_minutes"`
	} `yaml:"sheets"`

	Reports struct {
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
		DefaultLocale   string `yaml:"default_locale"`
	} `yaml:"reports"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/manzil.db"
	}
	if cfg.Reports.DefaultLocale == "" {
		cfg.Reports.DefaultLocale = "en"
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Bookings"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ReportCacheTTL() time.Duration {
	if c.Reports.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Reports.CacheTTLSeconds) * time.Second
}

func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

func (c *Config) BackupRetention() time.Duration {
	if c.Backup.RetentionDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(c.Backup.RetentionDays) * 24 * time.Hour
}

func (c *Config) SheetsSyncInterval() time.Duration {
	if c.Sheets.SyncMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Sheets.SyncMinutes) * time.Minute
}

func (c *Config) RateLimit() (float64, int) {
	limit := c.Server.RateLimitPerSec
	if limit <= 0 {
		limit = 10
	}
	burst := c.Server.RateLimitBurst
	if burst <= 0 {
		burst = 20
	}
	return limit, burst
}
