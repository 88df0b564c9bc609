// Package maintenance runs periodic housekeeping on the store.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/rahulpattadi/toppers/internal/shared"
	"github.com/rahulpattadi/toppers/internal/store"
)

// DefaultLoadLogSize is the number of load records kept by the sweeper.
const DefaultLoadLogSize = 100

// Options configures the sweeper.
type Options struct {
	Interval       time.Duration
	PreferenceTTL  time.Duration
	LoadLogSize    int
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// StartSweeper runs a background goroutine that periodically removes
// devices idle longer than the preference TTL, along with their theme
// preference, and trims the load log.
func StartSweeper(ctx context.Context, repo store.Repository, opts Options) {
	ticker := time.NewTicker(opts.Interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Sweeper started", "interval", opts.Interval, "preference_ttl", opts.PreferenceTTL)

		for {
			select {
			case <-ticker.C:
				Sweep(ctx, repo, opts)
			case <-ctx.Done():
				slog.Info("Sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Sweep runs one housekeeping pass.
func Sweep(ctx context.Context, repo store.Repository, opts Options) {
	var deleted int64
	err := shared.RetryOnConflict(ctx, "delete stale devices", opts.MaxRetries, opts.RetryBaseDelay, func() error {
		n, err := repo.DeleteStaleDevices(ctx, opts.PreferenceTTL)
		deleted = n
		return err
	})
	switch {
	case err != nil && ctx.Err() != nil:
		slog.Debug("Sweeper: context canceled, cleanup may be incomplete", "error", err)
		return
	case err != nil:
		slog.Error("Sweeper failed to delete stale devices", "error", err)
	case deleted > 0:
		slog.Info("Sweeper removed stale devices", "count", deleted)
	}

	keep := opts.LoadLogSize
	if keep <= 0 {
		keep = DefaultLoadLogSize
	}
	var pruned int64
	err = shared.RetryOnConflict(ctx, "prune load log", opts.MaxRetries, opts.RetryBaseDelay, func() error {
		n, err := repo.PruneLoads(ctx, keep)
		pruned = n
		return err
	})
	if err != nil {
		slog.Warn("Sweeper failed to prune load log", "error", err)
	} else if pruned > 0 {
		slog.Info("Sweeper pruned load log", "count", pruned)
	}
}
