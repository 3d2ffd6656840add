package recordings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/pkg/formatting"
	"github.com/JaimeStill/callvault/pkg/pagination"
	"github.com/JaimeStill/callvault/pkg/query"
	"github.com/JaimeStill/callvault/pkg/repository"
	"github.com/JaimeStill/callvault/pkg/storage"
)

type repo struct {
	dbs        Databases
	resolver   archive.Resolver
	store      storage.Reader
	encoder    archive.Encoder
	batcher    Batcher
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the recordings system. Catalog queries go to the tenant's
// database from dbs; audio is resolved, fetched from store, and encoded.
func New(
	dbs Databases,
	resolver archive.Resolver,
	store storage.Reader,
	encoder archive.Encoder,
	batcher Batcher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		dbs:        dbs,
		resolver:   resolver,
		store:      store,
		encoder:    encoder,
		batcher:    batcher,
		logger:     logger.With("system", "recordings"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxBodySize int64, maxBatchSize int) *Handler {
	return NewHandler(r, r.logger, maxBodySize, maxBatchSize)
}

func (r *repo) Search(ctx context.Context, req SearchRequest) (*pagination.PageResult[Recording], error) {
	t, err := tenant.Parse(req.Opco)
	if err != nil {
		return nil, err
	}

	from, to, err := req.window()
	if err != nil {
		return nil, err
	}

	db, err := r.dbs.DB(t)
	if err != nil {
		return nil, err
	}

	page := req.PageRequest
	page.Normalize(r.pagination)

	opco := t.String()
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereBetween("DateAdded", from, to).
		WhereContains("Opco", &opco)

	req.Filters.Apply(qb)
	qb.WhereSearch(page.Search, searchFields...)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count recordings: %w", repository.MapError(err, ErrNotFound))
	}

	pageSQL, pageArgs := qb.BuildPage(page.Offset(), page.PageSize)
	recs, err := repository.QueryMany(ctx, db, pageSQL, pageArgs, scanRecording)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", repository.MapError(err, ErrNotFound))
	}

	result := pagination.NewPageResult(recs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Metadata(ctx context.Context, req MetadataRequest) (*Recording, error) {
	t, err := tenant.Parse(req.Opco)
	if err != nil {
		return nil, err
	}

	db, err := r.dbs.DB(t)
	if err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Opco", t.String()).
		WhereEquals("FileName", req.FileName).
		BuildFirst()

	rec, err := repository.QueryOne(ctx, db, q, args, scanRecording)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound)
	}
	return &rec, nil
}

func (r *repo) Resolve(ctx context.Context, req locator.Request) (locator.Resolved, error) {
	target, err := r.resolver.Validate(req)
	if err != nil {
		return locator.Resolved{}, err
	}
	return r.resolver.ResolveTarget(ctx, target)
}

func (r *repo) Audio(ctx context.Context, req locator.Request) (*Audio, error) {
	target, err := r.resolver.Validate(req)
	if err != nil {
		return nil, err
	}

	resolved, err := r.resolver.ResolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	raw, err := r.store.Get(ctx, resolved.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", resolved.Key, err)
	}

	data, err := r.encoder.Transcode(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("transcode %s: %w", resolved.Key, err)
	}

	r.logger.Info(
		"recording delivered",
		"key", resolved.Key,
		"ambiguous", resolved.Ambiguous,
		"source", formatting.FormatBytes(int64(len(raw))),
		"encoded", formatting.FormatBytes(int64(len(data))),
	)

	return &Audio{
		Resolved: resolved,
		FileName: target.EntryName(),
		Data:     data,
	}, nil
}

func (r *repo) Download(ctx context.Context, reqs []locator.Request) (archive.Result, error) {
	result, err := r.batcher.Build(ctx, reqs)
	if err != nil {
		return result, err
	}

	r.logger.Info(
		"batch built",
		"requests", result.Summary.TotalRequests,
		"success", result.Summary.Success,
		"failure", result.Summary.Failure,
		"size", formatting.FormatBytes(int64(len(result.Archive))),
	)
	return result, nil
}
