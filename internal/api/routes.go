package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/callvault/internal/config"
	"github.com/JaimeStill/callvault/internal/recordings"
	"github.com/JaimeStill/callvault/pkg/openapi"
	"github.com/JaimeStill/callvault/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) ([]string, error) {
	groups := []routes.Group{
		domain.Recordings.Handler(cfg.API.MaxRequestSizeBytes(), cfg.API.MaxBatchSize).Routes(),
		newTenantHandler(runtime.Tenants, runtime.Logger).routes(),
	}
	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return routes.Patterns(groups...), nil
}

// buildSpec documents every route group as an OpenAPI document served
// from the API base path.
func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(recordings.Schemas())
	spec.Components.AddSchemas(map[string]*openapi.Schema{"TenantStatus": tenantStatusSchema})

	if err := routes.Document(spec, "", groups...); err != nil {
		return nil, fmt.Errorf("document routes: %w", err)
	}
	return openapi.MarshalJSON(spec)
}
