package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/config"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/recordings"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/internal/transcode"
	"github.com/JaimeStill/callvault/pkg/storage"
)

// commandContext builds the recordings system once per invocation.
// Tests replace build to run commands against an in-memory store.
type commandContext struct {
	configDir  string
	verbose    bool
	jsonOutput bool

	build func(c *commandContext) (recordings.System, error)

	once   sync.Once
	system recordings.System
	err    error
}

func newCommandContext() *commandContext {
	return &commandContext{build: buildSystem}
}

func (c *commandContext) recordings() (recordings.System, error) {
	c.once.Do(func() {
		c.system, c.err = c.build(c)
	})
	return c.system, c.err
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildSystem wires storage, the locator, the encoder, and the archive
// builder from configuration. Catalog databases are never opened: the CLI
// only delivers audio.
func buildSystem(c *commandContext) (recordings.System, error) {
	err := godotenv.Load(filepath.Join(c.configDir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFrom(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := c.logger()

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	enabled := make(map[tenant.Tenant]*sql.DB)
	for _, t := range cfg.Tenants.Enabled() {
		enabled[t] = nil
	}
	registry := tenant.NewRegistry(enabled)

	loc := locator.New(store, registry, logger)
	tc := transcode.New(&cfg.Transcode, logger)
	builder := archive.New(loc, store, tc, logger)

	return recordings.New(registry, loc, store, tc, builder, logger, cfg.API.Pagination), nil
}
