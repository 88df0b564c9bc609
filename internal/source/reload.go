package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/domain"
	"github.com/rahulpattadi/toppers/internal/shared"
	"github.com/rahulpattadi/toppers/internal/store"
)

// Reloader loads the question bank into a catalog and records each load.
// Only one load runs at a time.
type Reloader struct {
	loader  *Loader
	catalog *bank.Catalog
	repo    store.Repository

	maxRetries int
	baseDelay  time.Duration

	mu sync.Mutex
}

// NewReloader creates a reloader. repo may be nil, in which case loads are
// not recorded.
func NewReloader(loader *Loader, catalog *bank.Catalog, repo store.Repository, maxRetries int, baseDelay time.Duration) *Reloader {
	return &Reloader{
		loader:     loader,
		catalog:    catalog,
		repo:       repo,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Catalog returns the catalog the reloader fills.
func (r *Reloader) Catalog() *bank.Catalog {
	return r.catalog
}

// Reload fetches the data once, stores it in the catalog and records the
// load. A failed fetch still yields a usable snapshot of the fallback set.
// When ctx ends before the fetch completes, the current snapshot is kept and
// ctx's error is returned. Otherwise the returned error only reports a
// failure to record the load.
func (r *Reloader) Reload(ctx context.Context) (bank.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.loader.Load(ctx)
	if res.Err != nil && ctx.Err() != nil {
		// The caller went away; the source was not shown to be unavailable.
		if prev, ok := r.catalog.Snapshot(); ok {
			slog.Warn("Question reload canceled, keeping current questions",
				"version", prev.Version,
				"error", ctx.Err())
			return prev, ctx.Err()
		}
	}
	snap := r.catalog.Replace(bank.Snapshot{
		Questions: res.Questions,
		Origin:    res.Origin,
		Source:    res.Source,
		Err:       res.Err,
	})

	if r.repo == nil {
		return snap, nil
	}

	rec := &domain.LoadRecord{
		Origin:   snap.Origin,
		Source:   snap.Source,
		Count:    len(snap.Questions),
		Skipped:  res.Skipped,
		LoadedAt: snap.LoadedAt,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}

	err := shared.RetryOnConflict(ctx, "record load", r.maxRetries, r.baseDelay, func() error {
		return r.repo.RecordLoad(ctx, rec)
	})
	if err != nil {
		slog.Error("Failed to record question load", "error", err, "source", snap.Source)
		return snap, err
	}

	slog.Info("Question bank loaded",
		"version", snap.Version,
		"origin", snap.Origin,
		"count", len(snap.Questions))
	return snap, nil
}
