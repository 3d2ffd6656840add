package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/callvault/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "recordings" {
		t.Errorf("container_name: got %s, want recordings", cfg.ContainerName)
	}
	if cfg.ListPageSize != 1000 {
		t.Errorf("list_page_size: got %d, want 1000", cfg.ListPageSize)
	}
}

func TestFinalizeCapsPageSize(t *testing.T) {
	cfg := storage.Config{ConnectionString: "conn", ListPageSize: 9000}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.ListPageSize != storage.MaxListPageSize {
		t.Errorf("list_page_size: got %d, want %d", cfg.ListPageSize, storage.MaxListPageSize)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "vpi")
	t.Setenv("TEST_ACCOUNT", "vpiarchive")
	t.Setenv("TEST_TENANT", "tenant")
	t.Setenv("TEST_CLIENT", "client")
	t.Setenv("TEST_SECRET", "secret")
	t.Setenv("TEST_PAGE", "250")

	env := &storage.Env{
		ContainerName: "TEST_CONTAINER",
		AccountName:   "TEST_ACCOUNT",
		TenantID:      "TEST_TENANT",
		ClientID:      "TEST_CLIENT",
		ClientSecret:  "TEST_SECRET",
		ListPageSize:  "TEST_PAGE",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "vpi" {
		t.Errorf("container_name: got %s, want vpi", cfg.ContainerName)
	}
	if cfg.UsesConnectionString() {
		t.Error("expected service principal auth")
	}
	if cfg.ListPageSize != 250 {
		t.Errorf("list_page_size: got %d, want 250", cfg.ListPageSize)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "no credentials",
			cfg:     storage.Config{},
			wantErr: "connection_string or account_name required",
		},
		{
			name:    "partial service principal",
			cfg:     storage.Config{AccountName: "vpiarchive", TenantID: "t"},
			wantErr: "client_secret required",
		},
		{
			name: "connection string only",
			cfg:  storage.Config{ConnectionString: "conn"},
		},
		{
			name: "full service principal",
			cfg: storage.Config{
				AccountName:  "vpiarchive",
				TenantID:     "t",
				ClientID:     "c",
				ClientSecret: "s",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "recordings", ConnectionString: "base"}
	base.Merge(&storage.Config{ConnectionString: "overlay", ListPageSize: 10})

	if base.ContainerName != "recordings" {
		t.Errorf("container_name: got %s, want recordings", base.ContainerName)
	}
	if base.ConnectionString != "overlay" {
		t.Errorf("connection_string: got %s, want overlay", base.ConnectionString)
	}
	if base.ListPageSize != 10 {
		t.Errorf("list_page_size: got %d, want 10", base.ListPageSize)
	}
}
