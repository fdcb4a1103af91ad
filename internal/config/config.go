// Package config provides configuration management for the match predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents prediction store connection configuration.
// Optional: with no host configured the service predicts without
// persisting results.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// DataConfig locates the match corpora. Paths are ordered candidate
// locations, first readable wins.
type DataConfig struct {
	HistoricalPaths []string `mapstructure:"historical_paths" validate:"required,min=1"`
	SchedulePaths   []string `mapstructure:"schedule_paths" validate:"required,min=1"`
	ScheduleURL     string   `mapstructure:"schedule_url" validate:"omitempty,url"`
}

// ModelConfig represents classifier and artifact configuration
type ModelConfig struct {
	ID                 string   `mapstructure:"id" validate:"required"`
	ArtifactDirs       []string `mapstructure:"artifact_dirs" validate:"required,min=1"`
	TrainCutoff        string   `mapstructure:"train_cutoff" validate:"required,datetime"`
	Trees              int      `mapstructure:"trees" validate:"required,gt=0"`
	MinSamplesSplit    int      `mapstructure:"min_samples_split" validate:"required,gt=1"`
	Seed               int64    `mapstructure:"seed"`
	ResultCacheTTLSecs int      `mapstructure:"result_cache_ttl_seconds" validate:"omitempty,gt=0"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port       int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort int `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents scheduled data refresh configuration
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	ScheduleRefreshCron string `mapstructure:"schedule_refresh_cron"`
	RetrainCron         string `mapstructure:"retrain_cron"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// HasDatabase reports whether a prediction store is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// TrainCutoffTime parses the configured temporal split point.
func (c *Config) TrainCutoffTime() (time.Time, error) {
	return time.Parse("2006-01-02", c.Model.TrainCutoff)
}
