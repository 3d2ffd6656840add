// Package routes declares HTTP routes as data so domain handlers can publish
// them and the API module can register and document them.
package routes

import (
	"net/http"

	"github.com/JaimeStill/callvault/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// describes the route in the generated API document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
