// Package config handles configuration for the imgbox server: defaults,
// then an optional JSON file, then environment variables, then flags.
// Later sources win.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Store kinds understood by DBKind.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// Config holds runtime settings for the imgbox server.
//
// The DB* fields are assembled into a connection string by DSN unless
// DatabaseDSN is set, in which case it is used verbatim.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR"`
	DBKind         string        `env:"DB_KIND"`
	DBUser         string        `env:"DB_USER"`
	DBPassword     string        `env:"DB_PASSWORD"`
	DBHost         string        `env:"DB_HOST"`
	DBName         string        `env:"DB_NAME"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	UploadDir      string        `env:"UPLOAD_DIR"`
	MaxUploadSize  int64         `env:"MAX_UPLOAD_SIZE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	OTelEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the database credentials are for local docker setups only.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DBKind = KindPostgres
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBHost = "localhost:5432"
	c.DBName = "imgbox"
	c.DatabaseDSN = ""
	c.UploadDir = "UPLOAD_FILES"
	c.MaxUploadSize = 10 << 20
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.OTelEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying the JSON
// file named by -c/-config (or $IMGBOX_CONFIG), the environment and finally
// command-line flags. It is meant to be called once at process start.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// DSN returns the connection string for the configured store.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	switch c.DBKind {
	case KindSQLite:
		return c.DBName + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.DBUser, c.DBPassword),
			Host:     c.DBHost,
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: HTTP address must be set")
	}
	if c.DBKind != KindPostgres && c.DBKind != KindSQLite {
		return fmt.Errorf("config: unsupported DB kind %q", c.DBKind)
	}
	if c.DatabaseDSN == "" && c.DBName == "" {
		return errors.New("config: DB name or DSN must be set")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("config: upload dir must be set")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("config: max upload size must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: request timeout must be positive")
	}
	return nil
}
