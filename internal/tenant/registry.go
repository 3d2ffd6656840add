package tenant

import (
	"database/sql"
	"fmt"
)

// Registry holds the enabled tenants and their metadata database handles.
// A tenant absent from the registry is disabled: no storage or database I/O
// is performed on its behalf.
type Registry struct {
	backends map[Tenant]*sql.DB
}

// NewRegistry creates a registry from the enabled tenants. A nil handle is
// allowed for deployments that serve recordings without metadata search.
func NewRegistry(enabled map[Tenant]*sql.DB) *Registry {
	backends := make(map[Tenant]*sql.DB, len(enabled))
	for t, db := range enabled {
		backends[t] = db
	}
	return &Registry{backends: backends}
}

// Enabled reports whether t may be served.
func (r *Registry) Enabled(t Tenant) bool {
	_, ok := r.backends[t]
	return ok
}

// Tenants returns the enabled tenants in the canonical order.
func (r *Registry) Tenants() []Tenant {
	out := make([]Tenant, 0, len(r.backends))
	for _, t := range All {
		if r.Enabled(t) {
			out = append(out, t)
		}
	}
	return out
}

// DB returns the metadata database for t.
func (r *Registry) DB(t Tenant) (*sql.DB, error) {
	db, ok := r.backends[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s is disabled", ErrDisabled, t)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: %s has no metadata database", ErrDisabled, t)
	}
	return db, nil
}
