package tenant

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/callvault/pkg/database"
)

// Backend configures the stores owned by one tenant.
// The metadata database is only opened when Enabled is true.
type Backend struct {
	Enabled  bool            `toml:"enabled"`
	Database database.Config `toml:"database"`
}

// Config holds the per-tenant backends.
type Config struct {
	CMP   Backend `toml:"cmp"`
	NYSEG Backend `toml:"nyseg"`
	RGE   Backend `toml:"rge"`
}

// Env maps each tenant's settings to environment variable names.
type Env struct {
	CMP   BackendEnv
	NYSEG BackendEnv
	RGE   BackendEnv
}

// BackendEnv names the environment variables for one tenant backend.
type BackendEnv struct {
	Enabled  string
	Database *database.Env
}

// Backend returns the configuration for t.
func (c *Config) Backend(t Tenant) *Backend {
	switch t {
	case CMP:
		return &c.CMP
	case NYSEG:
		return &c.NYSEG
	case RGE:
		return &c.RGE
	}
	return nil
}

// Finalize applies environment overrides and validates each enabled backend.
// Disabled backends are left untouched so a partial database section does
// not fail startup.
func (c *Config) Finalize(env *Env) error {
	for _, t := range All {
		b := c.Backend(t)
		var benv BackendEnv
		if env != nil {
			benv = env.lookup(t)
		}
		if err := b.finalize(benv); err != nil {
			return fmt.Errorf("%s: %w", t.Key(), err)
		}
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled flags always apply.
func (c *Config) Merge(overlay *Config) {
	for _, t := range All {
		b := c.Backend(t)
		o := overlay.Backend(t)
		b.Enabled = o.Enabled
		b.Database.Merge(&o.Database)
	}
}

// Enabled lists the tenants switched on in this configuration.
func (c *Config) Enabled() []Tenant {
	enabled := make([]Tenant, 0, len(All))
	for _, t := range All {
		if c.Backend(t).Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

func (b *Backend) finalize(env BackendEnv) error {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				b.Enabled = enabled
			}
		}
	}
	if !b.Enabled {
		return nil
	}
	if err := b.Database.Finalize(env.Database); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (e *Env) lookup(t Tenant) BackendEnv {
	switch t {
	case CMP:
		return e.CMP
	case NYSEG:
		return e.NYSEG
	case RGE:
		return e.RGE
	}
	return BackendEnv{}
}
