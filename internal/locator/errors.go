package locator

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/callvault/internal/metadata"
	"github.com/JaimeStill/callvault/pkg/storage"
)

var (
	// ErrValidation indicates a request rejected before any storage access.
	ErrValidation = errors.New("invalid recording request")
	// ErrNotFound indicates no recording could be resolved. The concrete
	// error is a *NotFoundError carrying the reason.
	ErrNotFound = errors.New("recording not found")
)

// Not-found reasons, from most to least specific.
const (
	ReasonNotMigrated      = "not migrated"
	ReasonNoAttributeMatch = "metadata found, no attribute match"
	ReasonNoMetadata       = "no metadata"
)

// NotFoundError reports why resolution produced no eligible candidate.
type NotFoundError struct {
	Prefix string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s under %s: %s", ErrNotFound, e.Prefix, e.Reason)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MapHTTPStatus maps resolution errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, metadata.ErrMalformed):
		return http.StatusBadGateway
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
