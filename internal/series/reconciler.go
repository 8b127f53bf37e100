// Package series reconciles raw series names against the identity directory,
// returning a canonically ordered identifier set.
package series

import (
	"context"
	"log/slog"
	"sort"

	"karagen/internal/directory"
	"karagen/internal/logging"
)

// Reconciler resolves series names to identifiers, minting lazily.
type Reconciler struct {
	directory directory.Directory
	logger    *slog.Logger
}

// New constructs a reconciler over the given identity directory.
func New(dir directory.Directory, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		directory: dir,
		logger:    logging.NewComponentLogger(logger, "series"),
	}
}

// Result is the outcome of one reconciliation.
type Result struct {
	// IDs is sorted ascending, so the output never depends on input order.
	IDs       []string
	MintedNew bool
}

// Reconcile resolves every name, seeding a minted identity's translation map
// with primaryLanguage. Identifiers are deduplicated and sorted before
// returning, making repeated calls with reordered names idempotent.
func (r *Reconciler) Reconcile(ctx context.Context, names []string, primaryLanguage string) (Result, error) {
	var result Result
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		resolution, err := r.directory.ResolveOrCreateSeries(ctx, name, primaryLanguage)
		if err != nil {
			return Result{}, err
		}
		if resolution.New {
			result.MintedNew = true
			r.logger.Info("minted series",
				logging.String("name", name),
				logging.String("sid", resolution.ID),
			)
		}
		if _, dup := seen[resolution.ID]; dup {
			continue
		}
		seen[resolution.ID] = struct{}{}
		result.IDs = append(result.IDs, resolution.ID)
	}
	sort.Strings(result.IDs)
	return result, nil
}
