package api

import (
	"github.com/JaimeStill/callvault/internal/recordings"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Recordings recordings.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Recordings: recordings.New(
			runtime.Tenants,
			runtime.Locator,
			runtime.Storage,
			runtime.Transcoder,
			runtime.Archive,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
