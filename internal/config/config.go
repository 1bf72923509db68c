// Package config provides centralized configuration management for the
// migration tool. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Service ServiceConfig
	Upload  UploadConfig
	Schema  SchemaConfig
	Cache   CacheConfig
	Report  ReportConfig
	Web     WebConfig
	Logging LoggingConfig
}

// ServiceConfig holds core data service connection settings.
type ServiceConfig struct {
	// URL is the base URL of the core data service (required)
	URL string `env:"CDS_URL" envAlt:"CORE_DATA_SERVICE_URL" required:"true"`

	// Timeout is the per-request timeout (default: 30s)
	Timeout time.Duration `env:"CDS_TIMEOUT" default:"30s"`
}

// UploadConfig holds upload orchestration settings.
type UploadConfig struct {
	// Workers is the number of in-flight upload requests per sheet batch (default: 10)
	Workers int `env:"UPLOAD_WORKERS" default:"10"`

	// Force bypasses cache and hash comparison, re-uploading every document (default: false)
	Force bool `env:"UPLOAD_FORCE" default:"false"`
}

// SchemaConfig holds validation schema policy.
type SchemaConfig struct {
	// AllowPermissive degrades an unavailable template schema to an empty,
	// vacuously passing one instead of rejecting the sheet (default: false)
	AllowPermissive bool `env:"SCHEMA_ALLOW_PERMISSIVE" default:"false"`
}

// CacheConfig holds durable cache settings.
type CacheConfig struct {
	// Path is the SQLite cache database file (default: .catalog-cache/components.db)
	Path string `env:"CACHE_PATH" default:".catalog-cache/components.db"`
}

// ReportConfig holds diagnostic report settings.
type ReportConfig struct {
	// Dir is where end-of-run reports are written (default: reports)
	Dir string `env:"REPORT_DIR" default:"reports"`
}

// WebConfig holds the local status server settings.
type WebConfig struct {
	// Enabled starts the status/report HTTP server after a run (default: false)
	Enabled bool `env:"WEB_ENABLED" default:"false"`

	// Addr is the listen address for the status server (default: 127.0.0.1:8484)
	Addr string `env:"WEB_ADDR" default:"127.0.0.1:8484"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"WEB_REQUEST_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
