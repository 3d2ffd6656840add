// Package locator resolves a recording request to the storage key of its
// audio object by reading the per-day metadata documents of a tenant.
package locator

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/JaimeStill/callvault/internal/metadata"
	"github.com/JaimeStill/callvault/pkg/storage"
)

// Resolved identifies the audio object chosen for a request.
type Resolved struct {
	Key        string `json:"key"`
	FileName   string `json:"fileName"`
	Ambiguous  bool   `json:"ambiguous"`
	Candidates int    `json:"candidates"`
	Documents  int    `json:"documents"`
}

// Locator resolves requests against an object store.
type Locator struct {
	store   storage.Reader
	tenants Enabled
	logger  *slog.Logger
}

// New creates a Locator reading metadata from store.
func New(store storage.Reader, tenants Enabled, logger *slog.Logger) *Locator {
	return &Locator{
		store:   store,
		tenants: tenants,
		logger:  logger.With("system", "locator"),
	}
}

// Resolve validates req and returns the storage key of the matching audio
// object. When several candidates remain after filtering, the first in
// document order is chosen and Resolved.Ambiguous is set.
func (l *Locator) Resolve(ctx context.Context, req Request) (Resolved, error) {
	target, err := l.Validate(req)
	if err != nil {
		return Resolved{}, err
	}
	return l.ResolveTarget(ctx, target)
}

// Validate checks req against the tenants this locator serves.
func (l *Locator) Validate(req Request) (Target, error) {
	return Validate(req, l.tenants)
}

// ResolveTarget resolves an already validated target.
func (l *Locator) ResolveTarget(ctx context.Context, target Target) (Resolved, error) {
	docs, err := l.documents(ctx, target)
	if err != nil {
		return Resolved{}, err
	}

	var (
		eligible    []metadata.Record
		notMigrated int
		malformed   error
	)

	for _, key := range docs {
		data, err := l.store.Get(ctx, key)
		if err != nil {
			return Resolved{}, fmt.Errorf("read metadata %s: %w", key, err)
		}

		records, err := metadata.Parse(data)
		if err != nil {
			l.logger.Warn("skipping malformed metadata", "key", key, "error", err)
			if malformed == nil {
				malformed = fmt.Errorf("parse metadata %s: %w", key, err)
			}
			continue
		}

		if len(records) > 1 {
			records = target.filterRecords(records)
		}

		for _, r := range records {
			if !target.matches(r) {
				continue
			}
			if !r.Migrated() {
				notMigrated++
				continue
			}
			eligible = append(eligible, r)
		}
	}

	l.logger.Debug("metadata scanned",
		"tenant", target.Tenant,
		"prefix", target.Prefix,
		"documents", len(docs),
		"eligible", len(eligible),
		"not_migrated", notMigrated,
	)

	if len(eligible) == 0 {
		if malformed != nil {
			return Resolved{}, malformed
		}
		reason := ReasonNoMetadata
		switch {
		case notMigrated > 0:
			reason = ReasonNotMigrated
		case len(docs) > 0:
			reason = ReasonNoAttributeMatch
		}
		return Resolved{}, &NotFoundError{Prefix: target.Prefix, Reason: reason}
	}

	chosen := eligible[0]
	res := Resolved{
		Key:        target.Prefix + chosen.FileName,
		FileName:   chosen.FileName,
		Ambiguous:  len(eligible) > 1,
		Candidates: len(eligible),
		Documents:  len(docs),
	}

	if res.Ambiguous {
		l.logger.Warn("ambiguous recording match",
			"tenant", target.Tenant,
			"token", target.Token,
			"username", target.Username,
			"candidates", len(eligible),
			"key", res.Key,
		)
	}

	return res, nil
}

// documents lists the metadata document keys relevant to target.
func (l *Locator) documents(ctx context.Context, target Target) ([]string, error) {
	if target.Tenant.NestedMetadata() {
		return l.nestedDocuments(ctx, target)
	}
	return l.sidecarDocuments(ctx, target)
}

// nestedDocuments returns every metadata document in the day's Metadata
// folder. Export summaries describe many recordings per document, so
// filtering happens per record.
func (l *Locator) nestedDocuments(ctx context.Context, target Target) ([]string, error) {
	keys, err := l.list(ctx, target.Prefix+"Metadata/")
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, key := range keys {
		if isMetadata(key) {
			docs = append(docs, key)
		}
	}
	return docs, nil
}

// sidecarDocuments returns metadata documents stored beside their audio
// whose filename encodes the target's timestamp and participant.
func (l *Locator) sidecarDocuments(ctx context.Context, target Target) ([]string, error) {
	keys, err := l.list(ctx, target.Prefix)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, key := range keys {
		if isMetadata(key) && target.matchesName(key) {
			docs = append(docs, key)
		}
	}
	return docs, nil
}

func (l *Locator) list(ctx context.Context, prefix string) ([]string, error) {
	keys, err := l.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return keys, nil
}

// filterRecords keeps records whose FileName encodes the target's timestamp
// and participant.
func (t Target) filterRecords(records []metadata.Record) []metadata.Record {
	kept := records[:0:0]
	for _, r := range records {
		if t.matchesName(r.FileName) {
			kept = append(kept, r)
		}
	}
	return kept
}

func isMetadata(key string) bool {
	return strings.EqualFold(path.Ext(key), MetadataExt)
}
