package tenant_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/pkg/database"
)

func TestFinalizeSkipsDisabledBackends(t *testing.T) {
	cfg := tenant.Config{
		CMP: tenant.Backend{
			Enabled:  true,
			Database: database.Config{Name: "vpi_cmp", User: "vpi"},
		},
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.CMP.Database.Port != 5432 {
		t.Errorf("enabled backend should receive defaults, port = %d", cfg.CMP.Database.Port)
	}
	if cfg.NYSEG.Database.Port != 0 {
		t.Errorf("disabled backend should be untouched, port = %d", cfg.NYSEG.Database.Port)
	}

	enabled := cfg.Enabled()
	if len(enabled) != 1 || enabled[0] != tenant.CMP {
		t.Errorf("Enabled() = %v, want [CMP]", enabled)
	}
}

func TestFinalizeEnvEnablesTenant(t *testing.T) {
	t.Setenv("TEST_RGE_ENABLED", "true")
	t.Setenv("TEST_RGE_DB_NAME", "vpi_rge")
	t.Setenv("TEST_RGE_DB_USER", "vpi")

	env := &tenant.Env{
		RGE: tenant.BackendEnv{
			Enabled: "TEST_RGE_ENABLED",
			Database: &database.Env{
				Name: "TEST_RGE_DB_NAME",
				User: "TEST_RGE_DB_USER",
			},
		},
	}

	var cfg tenant.Config
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.RGE.Enabled {
		t.Fatal("RGE should be enabled from env")
	}
	if cfg.RGE.Database.Name != "vpi_rge" {
		t.Errorf("database name: got %s, want vpi_rge", cfg.RGE.Database.Name)
	}
}

func TestFinalizeValidatesEnabledBackend(t *testing.T) {
	cfg := tenant.Config{NYSEG: tenant.Backend{Enabled: true}}

	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error for enabled backend without database name")
	}
	if !strings.Contains(err.Error(), "nyseg: database: name required") {
		t.Errorf("unexpected error: %v", err)
	}
}
