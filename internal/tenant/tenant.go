// Package tenant defines the operating companies whose recordings are served
// and which of them are enabled in this deployment.
package tenant

import (
	"errors"
	"fmt"
	"strings"
)

// Tenant is an operating-company code. The set is closed: CMP, NYSEG and RGE.
type Tenant string

const (
	CMP   Tenant = "CMP"
	NYSEG Tenant = "NYSEG"
	RGE   Tenant = "RGE"
)

// All lists the supported tenants in a stable order.
var All = []Tenant{CMP, NYSEG, RGE}

var (
	// ErrUnsupported indicates a tenant code outside the supported set.
	ErrUnsupported = errors.New("unsupported tenant")
	// ErrDisabled indicates the tenant is supported but switched off in configuration.
	ErrDisabled = errors.New("tenant disabled")
)

// Parse normalizes s and returns the matching tenant.
func Parse(s string) (Tenant, error) {
	t := Tenant(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case CMP, NYSEG, RGE:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
}

func (t Tenant) String() string {
	return string(t)
}

// Key returns the lower-case form used in configuration tables and env names.
func (t Tenant) Key() string {
	return strings.ToLower(string(t))
}

// NestedMetadata reports whether the tenant stores its metadata documents
// under a Metadata/ sub-prefix of the date prefix (one export summary per
// folder) instead of one document per recording beside the audio.
func (t Tenant) NestedMetadata() bool {
	return t == CMP
}
