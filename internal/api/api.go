// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/callvault/internal/config"
	"github.com/JaimeStill/callvault/internal/infrastructure"
	"github.com/JaimeStill/callvault/pkg/middleware"
	"github.com/JaimeStill/callvault/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Middleware runs in registration order: request ID, access log, CORS, then
// bearer authentication, so preflights and rejected tokens are still logged.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	patterns, err := registerRoutes(mux, domain, cfg, runtime)
	if err != nil {
		return nil, err
	}
	runtime.Logger.Info("routes registered", "base_path", cfg.API.BasePath, "routes", patterns)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(runtime.Auth.Middleware())

	return m, nil
}
