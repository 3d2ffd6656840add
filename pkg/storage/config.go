package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds Azure Blob Storage connection parameters.
// Either ConnectionString or the service principal fields
// (AccountName, TenantID, ClientID, ClientSecret) must be set.
// When both are present the connection string wins.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountName      string `toml:"account_name"`
	TenantID         string `toml:"tenant_id"`
	ClientID         string `toml:"client_id"`
	ClientSecret     string `toml:"client_secret"`
	ListPageSize     int32  `toml:"list_page_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountName      string
	TenantID         string
	ClientID         string
	ClientSecret     string
	ListPageSize     string
}

// UsesConnectionString reports whether the client authenticates with a shared key
// connection string rather than a service principal.
func (c *Config) UsesConnectionString() bool {
	return c.ConnectionString != ""
}

// ServiceURL returns the blob endpoint for AccountName.
func (c *Config) ServiceURL() string {
	return fmt.Sprintf(serviceURLTemplate, c.AccountName)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountName != "" {
		c.AccountName = overlay.AccountName
	}
	if overlay.TenantID != "" {
		c.TenantID = overlay.TenantID
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.ClientSecret != "" {
		c.ClientSecret = overlay.ClientSecret
	}
	if overlay.ListPageSize != 0 {
		c.ListPageSize = overlay.ListPageSize
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "recordings"
	}
	if c.ListPageSize <= 0 {
		c.ListPageSize = 1000
	}
	if c.ListPageSize > MaxListPageSize {
		c.ListPageSize = MaxListPageSize
	}
}

func (c *Config) loadEnv(env *Env) {
	setString := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString(env.ContainerName, &c.ContainerName)
	setString(env.ConnectionString, &c.ConnectionString)
	setString(env.AccountName, &c.AccountName)
	setString(env.TenantID, &c.TenantID)
	setString(env.ClientID, &c.ClientID)
	setString(env.ClientSecret, &c.ClientSecret)

	if env.ListPageSize != "" {
		if v := os.Getenv(env.ListPageSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.ListPageSize = min(int32(n), MaxListPageSize)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.UsesConnectionString() {
		return nil
	}
	if c.AccountName == "" {
		return fmt.Errorf("connection_string or account_name required")
	}
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("tenant_id, client_id and client_secret required with account_name")
	}
	return nil
}
