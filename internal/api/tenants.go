package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/pkg/handlers"
	"github.com/JaimeStill/callvault/pkg/openapi"
	"github.com/JaimeStill/callvault/pkg/routes"
)

// tenantStatus describes one supported tenant to API clients.
type tenantStatus struct {
	Tenant  tenant.Tenant `json:"tenant"`
	Enabled bool          `json:"enabled"`
	Catalog bool          `json:"catalog"`
}

var tenantStatusSchema = &openapi.Schema{
	Type: "object",
	Properties: map[string]*openapi.Schema{
		"tenant":  {Type: "string", Enum: []any{"CMP", "NYSEG", "RGE"}},
		"enabled": {Type: "boolean", Description: "Recordings are served"},
		"catalog": {Type: "boolean", Description: "Catalog search is available"},
	},
}

type tenantHandler struct {
	registry *tenant.Registry
	logger   *slog.Logger
}

func newTenantHandler(registry *tenant.Registry, logger *slog.Logger) *tenantHandler {
	return &tenantHandler{
		registry: registry,
		logger:   logger.With("handler", "tenants"),
	}
}

func (h *tenantHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/tenants",
		Tags:   []string{"Tenants"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: &openapi.Operation{
				Summary: "List supported tenants and whether each is served",
				Responses: map[int]*openapi.Response{
					http.StatusOK: {
						Description: "OK",
						Content: map[string]*openapi.MediaType{
							"application/json": {Schema: openapi.ArrayOf("TenantStatus")},
						},
					},
				},
			}},
		},
	}
}

// list reports every supported tenant, whether it is served, and whether
// catalog search is available for it.
func (h *tenantHandler) list(w http.ResponseWriter, r *http.Request) {
	out := make([]tenantStatus, 0, len(tenant.All))
	for _, t := range tenant.All {
		_, err := h.registry.DB(t)
		out = append(out, tenantStatus{
			Tenant:  t,
			Enabled: h.registry.Enabled(t),
			Catalog: err == nil,
		})
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}
