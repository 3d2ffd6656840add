package openapi

import (
	"maps"
	"net/http"
)

// NewComponents creates Components with the shared pagination schema and
// one JSON error response per status the API returns.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Free-text search"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: Name,-DateAdded"},
				},
			},
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse(http.StatusBadRequest),
			"Unauthorized":    errorResponse(http.StatusUnauthorized),
			"NotFound":        errorResponse(http.StatusNotFound),
			"TooLarge":        errorResponse(http.StatusRequestEntityTooLarge),
			"BadGateway":      errorResponse(http.StatusBadGateway),
			"Unavailable":     errorResponse(http.StatusServiceUnavailable),
			"GatewayTimeout":  errorResponse(http.StatusGatewayTimeout),
			"InternalFailure": errorResponse(http.StatusInternalServerError),
		},
	}
}

func errorResponse(status int) *Response {
	return &Response{
		Description: http.StatusText(status),
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
