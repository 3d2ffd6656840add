// Package archive bundles the audio for a batch of recording requests into a
// single ZIP with a status.json manifest describing every request.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/pkg/storage"
)

// ManifestName is the fixed name of the summary entry.
const ManifestName = "status.json"

// Resolver validates and resolves recording requests.
type Resolver interface {
	Validate(req locator.Request) (locator.Target, error)
	ResolveTarget(ctx context.Context, target locator.Target) (locator.Resolved, error)
}

// Encoder converts raw recorder audio to the delivery format.
type Encoder interface {
	Transcode(ctx context.Context, raw []byte) ([]byte, error)
}

// Builder assembles batch archives. It holds no per-batch state; concurrent
// Build calls are independent.
type Builder struct {
	resolver Resolver
	store    storage.Reader
	encoder  Encoder
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Builder.
func New(resolver Resolver, store storage.Reader, encoder Encoder, logger *slog.Logger) *Builder {
	return &Builder{
		resolver: resolver,
		store:    store,
		encoder:  encoder,
		logger:   logger.With("system", "archive"),
		now:      time.Now,
	}
}

// Build processes reqs in order. A request that fails validation,
// resolution, download, or transcoding is recorded in the summary and the
// batch continues. When nothing succeeds the Result carries no archive.
// Entries sharing a name are written as-is; extractors keep the last one.
func (b *Builder) Build(ctx context.Context, reqs []locator.Request) (Result, error) {
	if len(reqs) == 0 {
		return Result{}, ErrEmptyBatch
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := b.now()

	summary := Summary{
		TotalRequests: len(reqs),
		Records:       make([]Outcome, 0, len(reqs)),
	}

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("batch interrupted at item %d: %w", i, err)
		}

		outcome, audio := b.process(ctx, req)

		if outcome.Status == StatusSuccess {
			if err := writeEntry(zw, *outcome.FileName, modified, audio); err != nil {
				return Result{}, err
			}
		} else {
			b.logger.Warn("batch item failed",
				"index", i,
				"username", outcome.Username,
				"date", outcome.Date,
				"status", outcome.Status,
				"reason", *outcome.Reason,
			)
		}

		summary.add(outcome)
	}

	b.logger.Info("batch processed",
		"total", summary.TotalRequests,
		"success", summary.Success,
		"failure", summary.Failure,
	)

	if summary.Success == 0 {
		return Result{Summary: summary}, nil
	}

	manifest, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return Result{}, &ArchiveError{Op: "encode manifest", Err: err}
	}
	if err := writeEntry(zw, ManifestName, modified, manifest); err != nil {
		return Result{}, err
	}
	if err := zw.Close(); err != nil {
		return Result{}, &ArchiveError{Op: "finalize", Err: err}
	}

	return Result{Archive: buf.Bytes(), Summary: summary}, nil
}

// process runs one request through resolve, download and transcode.
func (b *Builder) process(ctx context.Context, req locator.Request) (Outcome, []byte) {
	outcome := Outcome{
		Username: req.Username,
		Date:     req.Date,
	}

	target, err := b.resolver.Validate(req)
	if err != nil {
		return failed(outcome, StatusError, err.Error()), nil
	}

	resolved, err := b.resolver.ResolveTarget(ctx, target)
	if err != nil {
		var nf *locator.NotFoundError
		if errors.As(err, &nf) {
			return failed(outcome, StatusNotFound, nf.Reason), nil
		}
		return failed(outcome, StatusError, err.Error()), nil
	}

	raw, err := b.store.Get(ctx, resolved.Key)
	if err != nil {
		return failed(outcome, StatusError, fmt.Sprintf("download %s: %v", resolved.Key, err)), nil
	}

	audio, err := b.encoder.Transcode(ctx, raw)
	if err != nil {
		return failed(outcome, StatusError, fmt.Sprintf("transcode %s: %v", resolved.Key, err)), nil
	}

	name := target.EntryName()
	outcome.FileName = &name
	outcome.Status = StatusSuccess
	return outcome, audio
}

func failed(o Outcome, status Status, reason string) Outcome {
	o.Status = status
	o.Reason = &reason
	return o
}

func writeEntry(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return &ArchiveError{Op: "create " + name, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return &ArchiveError{Op: "write " + name, Err: err}
	}
	return nil
}
