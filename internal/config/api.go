package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/callvault/pkg/formatting"
	"github.com/JaimeStill/callvault/pkg/middleware"
	"github.com/JaimeStill/callvault/pkg/openapi"
	"github.com/JaimeStill/callvault/pkg/pagination"
)

const (
	EnvAPIBasePath       = "CALLVAULT_API_BASE_PATH"
	EnvAPIMaxRequestSize = "CALLVAULT_API_MAX_REQUEST_SIZE"
	EnvAPIMaxBatchSize   = "CALLVAULT_API_MAX_BATCH_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CALLVAULT_CORS_ENABLED",
	Origins:          "CALLVAULT_CORS_ORIGINS",
	AllowedMethods:   "CALLVAULT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CALLVAULT_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "CALLVAULT_CORS_EXPOSED_HEADERS",
	AllowCredentials: "CALLVAULT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CALLVAULT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CALLVAULT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CALLVAULT_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "CALLVAULT_OPENAPI_TITLE",
	Description: "CALLVAULT_OPENAPI_DESCRIPTION",
}

// exposedHeaders lets browser clients read the download filename and the
// resolution headers on audio responses.
var exposedHeaders = []string{
	"Content-Disposition",
	"X-Request-ID",
	"X-Recording-Key",
	"X-Recording-Ambiguous",
}

// APIConfig holds API routing, request limits, CORS, pagination, and
// API document settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	MaxBatchSize   int                   `toml:"max_batch_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes. Finalize has already
// rejected unparseable values.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxRequestSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}
	if overlay.MaxBatchSize > 0 {
		c.MaxBatchSize = overlay.MaxBatchSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 100
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = exposedHeaders
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
	if v := os.Getenv(EnvAPIMaxBatchSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxBatchSize = n
		}
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_request_size must be positive")
	}
	return nil
}
