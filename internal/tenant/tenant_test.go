package tenant_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/JaimeStill/callvault/internal/tenant"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    tenant.Tenant
		wantErr bool
	}{
		{in: "CMP", want: tenant.CMP},
		{in: " nyseg ", want: tenant.NYSEG},
		{in: "Rge", want: tenant.RGE},
		{in: "", wantErr: true},
		{in: "CEHE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tenant.Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, tenant.ErrUnsupported) {
					t.Fatalf("Parse(%q) error = %v, want ErrUnsupported", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNestedMetadata(t *testing.T) {
	if !tenant.CMP.NestedMetadata() {
		t.Error("CMP stores metadata under Metadata/")
	}
	for _, tn := range []tenant.Tenant{tenant.NYSEG, tenant.RGE} {
		if tn.NestedMetadata() {
			t.Errorf("%s stores metadata beside recordings", tn)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := tenant.NewRegistry(map[tenant.Tenant]*sql.DB{
		tenant.RGE: nil,
		tenant.CMP: nil,
	})

	if !reg.Enabled(tenant.CMP) || !reg.Enabled(tenant.RGE) {
		t.Error("CMP and RGE should be enabled")
	}
	if reg.Enabled(tenant.NYSEG) {
		t.Error("NYSEG should be disabled")
	}

	got := reg.Tenants()
	if len(got) != 2 || got[0] != tenant.CMP || got[1] != tenant.RGE {
		t.Errorf("Tenants() = %v, want [CMP RGE]", got)
	}

	if _, err := reg.DB(tenant.NYSEG); !errors.Is(err, tenant.ErrDisabled) {
		t.Errorf("DB(NYSEG) error = %v, want ErrDisabled", err)
	}
	if _, err := reg.DB(tenant.CMP); !errors.Is(err, tenant.ErrDisabled) {
		t.Errorf("DB(CMP) without handle error = %v, want ErrDisabled", err)
	}
}
