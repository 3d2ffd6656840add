// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, storage, tenant databases,
// the recording locator, the encoder, and authentication) that domain systems require.
package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/config"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/internal/transcode"
	"github.com/JaimeStill/callvault/pkg/auth"
	"github.com/JaimeStill/callvault/pkg/database"
	"github.com/JaimeStill/callvault/pkg/lifecycle"
	"github.com/JaimeStill/callvault/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Storage    storage.System
	Databases  map[tenant.Tenant]database.System
	Tenants    *tenant.Registry
	Locator    *locator.Locator
	Transcoder *transcode.Transcoder
	Archive    *archive.Builder
	Auth       *auth.Authenticator
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// Only enabled tenants get a database handle.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	dbs := make(map[tenant.Tenant]database.System)
	handles := make(map[tenant.Tenant]*sql.DB)
	for _, t := range cfg.Tenants.Enabled() {
		db, err := database.New(t.Key(), &cfg.Tenants.Backend(t).Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed for %s: %w", t, err)
		}
		dbs[t] = db
		handles[t] = db.Connection()
	}
	registry := tenant.NewRegistry(handles)

	authn, err := auth.New(ctx, &cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	loc := locator.New(store, registry, logger)
	tc := transcode.New(&cfg.Transcode, logger)

	logger.Info(
		"infrastructure initialized",
		"tenants", registry.Tenants(),
		"container", cfg.Storage.ContainerName,
		"auth", authn != nil,
	)

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Storage:    store,
		Databases:  dbs,
		Tenants:    registry,
		Locator:    loc,
		Transcoder: tc,
		Archive:    archive.New(loc, store, tc, logger),
		Auth:       authn,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	for _, t := range i.Tenants.Tenants() {
		if err := i.Databases[t].Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed for %s: %w", t, err)
		}
	}
	if err := i.Transcoder.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("transcode start failed: %w", err)
	}
	return nil
}
