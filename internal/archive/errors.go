package archive

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrEmptyBatch = errors.New("batch contains no requests")

// ArchiveError reports a failure writing the archive itself. It aborts the
// batch; per-item failures never do.
type ArchiveError struct {
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps archive errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyBatch) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
