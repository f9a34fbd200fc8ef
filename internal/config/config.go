// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath     = "config.toml"
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "chronicle"
	DefaultPGSSLMode      = "disable"
	DefaultSettleDelay    = 7 * time.Second
	DefaultFreshnessGate  = 10 * time.Second
	DefaultFlushInterval  = 10 * time.Second
	DefaultFlushBatchSize = 200
	DefaultRetention      = 30 * 24 * time.Hour
	DefaultSweepSpec      = "@every 1h"
	DefaultChunkSize      = 1000
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Discord  DiscordConfig  `toml:"discord"`
	Postgres PostgresConfig `toml:"postgres"`
	Audit    AuditConfig    `toml:"audit"`
	Batch    BatchConfig    `toml:"batch"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DiscordConfig holds the bot token used for the gateway session.
type DiscordConfig struct {
	BotToken string `toml:"bot_token"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// AuditConfig tunes deletion attribution. SettleDelaySeconds is how long an
// event waits before polling the audit log; FreshnessSeconds is the maximum
// audit entry age still considered to belong to the current deletion.
type AuditConfig struct {
	SettleDelaySeconds int `toml:"settle_delay_seconds"`
	FreshnessSeconds   int `toml:"freshness_seconds"`
}

// SettleDelay returns the configured settle delay as a duration.
func (c AuditConfig) SettleDelay() time.Duration {
	if c.SettleDelaySeconds <= 0 {
		return DefaultSettleDelay
	}
	return time.Duration(c.SettleDelaySeconds) * time.Second
}

// FreshnessGate returns the configured freshness window as a duration.
func (c AuditConfig) FreshnessGate() time.Duration {
	if c.FreshnessSeconds <= 0 {
		return DefaultFreshnessGate
	}
	return time.Duration(c.FreshnessSeconds) * time.Second
}

// BatchConfig tunes the write-behind message buffer and retention sweep.
type BatchConfig struct {
	FlushIntervalSeconds int    `toml:"flush_interval_seconds"`
	FlushBatchSize       int    `toml:"flush_batch_size"`
	RetentionDays        int    `toml:"retention_days"`
	SweepSpec            string `toml:"sweep_spec"`
}

// FlushInterval returns the configured flush interval as a duration.
func (c BatchConfig) FlushInterval() time.Duration {
	if c.FlushIntervalSeconds <= 0 {
		return DefaultFlushInterval
	}
	return time.Duration(c.FlushIntervalSeconds) * time.Second
}

// Retention returns the configured message retention window as a duration.
func (c BatchConfig) Retention() time.Duration {
	if c.RetentionDays <= 0 {
		return DefaultRetention
	}
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Batch: BatchConfig{
			FlushBatchSize: DefaultFlushBatchSize,
			SweepSpec:      DefaultSweepSpec,
		},
	}
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Batch.FlushBatchSize <= 0 {
		cfg.Batch.FlushBatchSize = DefaultFlushBatchSize
	}
	if cfg.Batch.SweepSpec == "" {
		cfg.Batch.SweepSpec = DefaultSweepSpec
	}
	return cfg, nil
}
