package transcode

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyInput     = errors.New("empty audio input")
	ErrProcessFailure = errors.New("transcoder process failed")
	ErrTimeout        = errors.New("transcode timed out")
	ErrBinaryNotFound = errors.New("encoder binary not found")
)

// ProcessError reports a non-zero encoder exit, or a zero exit that produced
// no output, with its diagnostic output.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Empty    bool
}

func (e *ProcessError) Error() string {
	if e.Empty {
		if e.Stderr == "" {
			return fmt.Sprintf("%s: no output produced", ErrProcessFailure)
		}
		return fmt.Sprintf("%s: no output produced: %s", ErrProcessFailure, e.Stderr)
	}
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit status %d", ErrProcessFailure, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", ErrProcessFailure, e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return ErrProcessFailure
}

// MapHTTPStatus maps transcode errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
