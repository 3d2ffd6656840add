package recordings

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/metadata"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/internal/transcode"
	"github.com/JaimeStill/callvault/pkg/handlers"
	"github.com/JaimeStill/callvault/pkg/repository"
	"github.com/JaimeStill/callvault/pkg/storage"
)

var (
	ErrNotFound      = errors.New("recording metadata not found")
	ErrInvalidSearch = errors.New("invalid search")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// MapHTTPStatus maps errors from every stage a recordings request passes
// through to an HTTP status code.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, handlers.ErrBodyTooLarge),
		errors.Is(err, handlers.ErrInvalidBody),
		errors.Is(err, handlers.ErrInvalidRequest):
		return handlers.MapHTTPStatus(err)
	case errors.Is(err, ErrInvalidSearch),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, tenant.ErrUnsupported),
		errors.Is(err, tenant.ErrDisabled):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, locator.ErrValidation),
		errors.Is(err, locator.ErrNotFound),
		errors.Is(err, metadata.ErrMalformed),
		errors.Is(err, storage.ErrNotFound):
		return locator.MapHTTPStatus(err)
	case errors.Is(err, transcode.ErrEmptyInput),
		errors.Is(err, transcode.ErrTimeout),
		errors.Is(err, transcode.ErrProcessFailure):
		return transcode.MapHTTPStatus(err)
	case errors.Is(err, archive.ErrEmptyBatch):
		return archive.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
