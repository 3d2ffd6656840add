// Package config loads the callvault service configuration from TOML files
// and CALLVAULT_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/internal/transcode"
	"github.com/JaimeStill/callvault/pkg/auth"
	"github.com/JaimeStill/callvault/pkg/database"
	"github.com/JaimeStill/callvault/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCallvaultEnv             = "CALLVAULT_ENV"
	EnvCallvaultShutdownTimeout = "CALLVAULT_SHUTDOWN_TIMEOUT"
	EnvCallvaultVersion         = "CALLVAULT_VERSION"
)

var storageEnv = &storage.Env{
	ContainerName:    "CALLVAULT_STORAGE_CONTAINER_NAME",
	ConnectionString: "CALLVAULT_STORAGE_CONNECTION_STRING",
	AccountName:      "CALLVAULT_STORAGE_ACCOUNT_NAME",
	TenantID:         "CALLVAULT_STORAGE_TENANT_ID",
	ClientID:         "CALLVAULT_STORAGE_CLIENT_ID",
	ClientSecret:     "CALLVAULT_STORAGE_CLIENT_SECRET",
	ListPageSize:     "CALLVAULT_STORAGE_LIST_PAGE_SIZE",
}

var transcodeEnv = &transcode.Env{
	Binary:  "CALLVAULT_TRANSCODE_BINARY",
	Timeout: "CALLVAULT_TRANSCODE_TIMEOUT",
}

var authEnv = &auth.Env{
	Enabled:  "CALLVAULT_AUTH_ENABLED",
	Issuer:   "CALLVAULT_AUTH_ISSUER",
	Audience: "CALLVAULT_AUTH_AUDIENCE",
}

var tenantEnv = &tenant.Env{
	CMP:   TenantEnv(tenant.CMP),
	NYSEG: TenantEnv(tenant.NYSEG),
	RGE:   TenantEnv(tenant.RGE),
}

// TenantEnv names a tenant's variables CALLVAULT_{TENANT}_ENABLED and
// CALLVAULT_{TENANT}_DB_*.
func TenantEnv(t tenant.Tenant) tenant.BackendEnv {
	p := "CALLVAULT_" + t.String()
	return tenant.BackendEnv{
		Enabled: p + "_ENABLED",
		Database: &database.Env{
			Host:            p + "_DB_HOST",
			Port:            p + "_DB_PORT",
			Name:            p + "_DB_NAME",
			Schema:          p + "_DB_SCHEMA",
			User:            p + "_DB_USER",
			Password:        p + "_DB_PASSWORD",
			SSLMode:         p + "_DB_SSL_MODE",
			MaxOpenConns:    p + "_DB_MAX_OPEN_CONNS",
			MaxIdleConns:    p + "_DB_MAX_IDLE_CONNS",
			ConnMaxLifetime: p + "_DB_CONN_MAX_LIFETIME",
			ConnTimeout:     p + "_DB_CONN_TIMEOUT",
		},
	}
}

// Config is the root configuration for the callvault service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Storage         storage.Config   `toml:"storage"`
	Tenants         tenant.Config    `toml:"tenants"`
	Transcode       transcode.Config `toml:"transcode"`
	API             APIConfig        `toml:"api"`
	Auth            auth.Config      `toml:"auth"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CALLVAULT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCallvaultEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml from the working directory (if present), applies
// the config.{CALLVAULT_ENV}.toml overlay, and finalizes all values.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the config files resolved against dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := dir + "/" + BaseConfigFile
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Storage.Merge(&overlay.Storage)
	c.Tenants.Merge(&overlay.Tenants)
	c.Transcode.Merge(&overlay.Transcode)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Tenants.Finalize(tenantEnv); err != nil {
		return fmt.Errorf("tenants: %w", err)
	}
	if err := c.Transcode.Finalize(transcodeEnv); err != nil {
		return fmt.Errorf("transcode: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCallvaultShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCallvaultVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	env := os.Getenv(EnvCallvaultEnv)
	if env == "" {
		return ""
	}
	path := dir + "/" + fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
