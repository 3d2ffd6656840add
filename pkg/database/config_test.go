package database_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/callvault/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "vpi_cmp", User: "vpi"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"schema", cfg.Schema, "public"},
		{"ssl_mode", cfg.SSLMode, "require"},
		{"max_open_conns", cfg.MaxOpenConns, 10},
		{"max_idle_conns", cfg.MaxIdleConns, 2},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "remotehost")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_PASSWORD", "envpass")
	t.Setenv("TEST_DB_TIMEOUT", "10s")

	env := &database.Env{
		Host:        "TEST_DB_HOST",
		Port:        "TEST_DB_PORT",
		Name:        "TEST_DB_NAME",
		User:        "TEST_DB_USER",
		Password:    "TEST_DB_PASSWORD",
		ConnTimeout: "TEST_DB_TIMEOUT",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "remotehost" {
		t.Errorf("host: got %s, want remotehost", cfg.Host)
	}
	if cfg.Port != 5433 {
		t.Errorf("port: got %d, want 5433", cfg.Port)
	}
	if cfg.Name != "envdb" || cfg.User != "envuser" || cfg.Password != "envpass" {
		t.Errorf("credentials not applied: %+v", cfg)
	}
	if cfg.ConnTimeoutDuration() != 10*time.Second {
		t.Errorf("conn_timeout: got %v, want 10s", cfg.ConnTimeoutDuration())
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "u"}, "name required"},
		{"missing user", database.Config{Name: "n"}, "user required"},
		{"bad port", database.Config{Name: "n", User: "u", Port: 70000}, "invalid port"},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "forever"}, "invalid conn_max_lifetime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDsnEscapesCredentials(t *testing.T) {
	cfg := database.Config{
		Host:     "db.internal",
		Port:     5432,
		Name:     "vpi_nyseg",
		Schema:   "vpi",
		User:     "reader",
		Password: "p@ss word",
		SSLMode:  "disable",
	}

	u, err := url.Parse(cfg.Dsn())
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}

	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Errorf("password: got %q", pw)
	}
	if u.Host != "db.internal:5432" {
		t.Errorf("host: got %s", u.Host)
	}
	if u.Path != "/vpi_nyseg" {
		t.Errorf("path: got %s", u.Path)
	}
	if got := u.Query().Get("search_path"); got != "vpi" {
		t.Errorf("search_path: got %s, want vpi", got)
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Name: "vpi", User: "vpi", Port: 5432}
	base.Merge(&database.Config{Host: "prodhost", Port: 6543})

	if base.Host != "prodhost" {
		t.Errorf("host: got %s, want prodhost", base.Host)
	}
	if base.Port != 6543 {
		t.Errorf("port: got %d, want 6543", base.Port)
	}
	if base.Name != "vpi" {
		t.Errorf("name should be preserved, got %s", base.Name)
	}
}
