package infrastructure_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/callvault/internal/config"
	"github.com/JaimeStill/callvault/internal/infrastructure"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/internal/transcode"
	"github.com/JaimeStill/callvault/pkg/database"
	"github.com/JaimeStill/callvault/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	db := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "nyseg",
		User:            "callvault",
		Password:        "callvault",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: "15m",
		ConnTimeout:     "5s",
	}
	return &config.Config{
		Storage: storage.Config{
			ContainerName:    "recordings",
			ConnectionString: azuriteConnString,
			ListPageSize:     1000,
		},
		Tenants: tenant.Config{
			NYSEG: tenant.Backend{Enabled: true, Database: db},
			RGE:   tenant.Backend{Enabled: false, Database: db},
		},
		Transcode: transcode.Config{Binary: "ffmpeg", Timeout: "30s"},
		Version:   "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.Locator == nil {
		t.Error("Locator is nil")
	}
	if infra.Transcoder == nil {
		t.Error("Transcoder is nil")
	}
	if infra.Archive == nil {
		t.Error("Archive is nil")
	}
	if infra.Auth != nil {
		t.Error("Auth should be nil when disabled")
	}
}

func TestNewTenantDatabases(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(infra.Databases) != 1 {
		t.Fatalf("databases: got %d, want 1", len(infra.Databases))
	}
	if _, ok := infra.Databases[tenant.NYSEG]; !ok {
		t.Error("NYSEG database missing")
	}

	tests := []struct {
		tenant  tenant.Tenant
		wantErr error
	}{
		{tenant.NYSEG, nil},
		{tenant.RGE, tenant.ErrDisabled},
		{tenant.CMP, tenant.ErrDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.tenant.String(), func(t *testing.T) {
			db, err := infra.Tenants.DB(tt.tenant)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DB() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && db != infra.Databases[tt.tenant].Connection() {
				t.Error("registry handle does not match database system connection")
			}
		})
	}

	for _, db := range infra.Databases {
		db.Connection().Close()
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}
