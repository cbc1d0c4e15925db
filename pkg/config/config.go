// Package config loads and validates the advisor's YAML configuration.
// Values support ${VAR} environment expansion so secrets stay out of the
// file; a missing file yields a fully defaulted config suitable for local
// development against sqlite and the bundled document directory.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the advisor service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Documents  DocumentsConfig  `yaml:"documents"`
	Search     SearchConfig     `yaml:"search"`
	Completion CompletionConfig `yaml:"completion"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Host to bind to.
	Host string `yaml:"host,omitempty"`

	// Port to listen on.
	Port int `yaml:"port,omitempty"`

	// RequestTimeout bounds the handling of a single request.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
}

// LoggingConfig configures the process-wide logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`

	// File receives log output instead of stderr when set.
	File string `yaml:"file,omitempty"`
}

// DatabaseConfig holds the SQL connection for portfolio data.
// Supports PostgreSQL and SQLite.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite3".
	Driver string `yaml:"driver,omitempty"`

	// Host is the database server hostname (not used for SQLite).
	Host string `yaml:"host,omitempty"`

	// Port is the database server port (not used for SQLite).
	Port int `yaml:"port,omitempty"`

	// Database is the database name, or the file path for SQLite.
	Database string `yaml:"database,omitempty"`

	// Username for authentication (not used for SQLite).
	Username string `yaml:"username,omitempty"`

	// Password for authentication. Supports ${VAR} expansion.
	Password string `yaml:"password,omitempty"`

	// SSLMode for PostgreSQL connections.
	SSLMode string `yaml:"ssl_mode,omitempty"`

	// MaxConns is the maximum number of open connections.
	MaxConns int `yaml:"max_conns,omitempty"`

	// MaxIdle is the maximum number of idle connections.
	MaxIdle int `yaml:"max_idle,omitempty"`
}

// DocumentsConfig points the document search at its corpus.
type DocumentsConfig struct {
	// Root is the directory holding strategist documents.
	Root string `yaml:"root,omitempty"`

	// Prefix narrows the search to objects under this path.
	Prefix string `yaml:"prefix,omitempty"`
}

// SearchConfig configures the live web search client.
type SearchConfig struct {
	// BaseURL of the search endpoint. Live search is disabled when empty.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey for the search endpoint. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty"`

	// MaxResults caps results per query.
	MaxResults int `yaml:"max_results,omitempty"`

	// Timeout bounds a single search call.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// CompletionConfig configures the optional language-model polish step for
// recommendations. Disabled when the API key is empty; the deterministic
// draft is used instead.
type CompletionConfig struct {
	// BaseURL of an OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey for the endpoint. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty"`

	// Model name to request.
	Model string `yaml:"model,omitempty"`

	// Temperature for generation.
	Temperature float64 `yaml:"temperature,omitempty"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens,omitempty"`
}

func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Logging.SetDefaults()
	c.Database.SetDefaults()
	c.Documents.SetDefaults()
	c.Search.SetDefaults()
	c.Completion.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Documents.Validate(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}
	return nil
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q (valid: debug, info, warn, error)", c.Level)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (valid: text, json)", c.Format)
	}
	return nil
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite3"
	}
	if c.Database == "" && (c.Driver == "sqlite3" || c.Driver == "sqlite") {
		c.Database = "advisor.db"
	}
	if c.Port == 0 && c.Driver == "postgres" {
		c.Port = 5432
	}
	if c.Driver == "postgres" && c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConns == 0 {
		c.MaxConns = 25
	}
	if c.MaxIdle == 0 {
		c.MaxIdle = 5
	}
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "postgres", "sqlite", "sqlite3":
	case "":
		return fmt.Errorf("driver is required")
	default:
		return fmt.Errorf("invalid driver %q (valid: postgres, sqlite3)", c.Driver)
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.Driver == "postgres" && c.Host == "" {
		return fmt.Errorf("host is required for postgres")
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("max_conns must be non-negative")
	}
	if c.MaxIdle < 0 {
		return fmt.Errorf("max_idle must be non-negative")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s", c.Host, c.Port, c.Database)
		if c.Username != "" {
			dsn += fmt.Sprintf(" user=%s", c.Username)
		}
		if c.Password != "" {
			dsn += fmt.Sprintf(" password=%s", c.Password)
		}
		if c.SSLMode != "" {
			dsn += fmt.Sprintf(" sslmode=%s", c.SSLMode)
		}
		return dsn
	case "sqlite", "sqlite3":
		return c.Database
	default:
		return ""
	}
}

// DriverName maps the configured driver to the database/sql driver name.
func (c *DatabaseConfig) DriverName() string {
	if c.Driver == "sqlite" {
		return "sqlite3"
	}
	return c.Driver
}

func (c *DocumentsConfig) SetDefaults() {
	if c.Root == "" {
		c.Root = "documents"
	}
}

func (c *DocumentsConfig) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	return nil
}

func (c *SearchConfig) SetDefaults() {
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

func (c *SearchConfig) Validate() error {
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must be non-negative")
	}
	return nil
}

// Enabled reports whether live search is configured.
func (c *SearchConfig) Enabled() bool { return c.BaseURL != "" }

func (c *CompletionConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 512
	}
}

// Enabled reports whether the polish step is configured.
func (c *CompletionConfig) Enabled() bool { return c.APIKey != "" }
