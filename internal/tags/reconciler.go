package tags

import (
	"context"
	"log/slog"
	"sort"

	"karagen/internal/catalog"
	"karagen/internal/directory"
	"karagen/internal/logging"
)

// Reconciler resolves raw tag names to canonical identifiers, merging
// cross-category name collisions within a batch into single identities.
type Reconciler struct {
	directory directory.Directory
	logger    *slog.Logger
}

// New constructs a reconciler over the given identity directory.
func New(dir directory.Directory, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		directory: dir,
		logger:    logging.NewComponentLogger(logger, "tags"),
	}
}

// Result is the outcome of one reconciliation batch.
type Result struct {
	// Resolved groups the fully-identified refs by category, preserving the
	// per-category input order.
	Resolved map[catalog.Category][]catalog.TagRef
	// MintedNew reports that an identity was minted or widened, or that the
	// resolved identifier set differs from the previous entry's.
	MintedNew bool
}

// item is one raw ref tagged with its originating category.
type item struct {
	category catalog.Category
	index    int
	ref      catalog.TagRef
}

// Reconcile resolves every raw ref in rawTags. Names colliding across
// categories within the batch collapse into one identity whose category set
// is the union. previousIDs, when non-nil, is the identifier set of the entry
// being edited; a changed set forces MintedNew even without a mint.
//
// Any directory failure during minting aborts the whole batch; no partially
// merged output is returned.
func (r *Reconciler) Reconcile(ctx context.Context, rawTags map[catalog.Category][]catalog.TagRef, previousIDs []string) (Result, error) {
	// Flatten in category-code order so merge tie-breaks are deterministic.
	var items []*item
	for _, category := range catalog.Categories() {
		for index, ref := range rawTags[category] {
			items = append(items, &item{category: category, index: index, ref: ref})
		}
	}

	// Single pass grouping by exact name; each group resolves as a unit.
	groups := make(map[string][]*item, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := groups[it.ref.Name]; !seen {
			order = append(order, it.ref.Name)
		}
		groups[it.ref.Name] = append(groups[it.ref.Name], it)
	}

	result := Result{Resolved: make(map[catalog.Category][]catalog.TagRef, len(rawTags))}
	for _, name := range order {
		group := groups[name]
		if err := r.resolveGroup(ctx, name, group, &result); err != nil {
			return Result{}, err
		}
	}

	for _, it := range items {
		result.Resolved[it.category] = append(result.Resolved[it.category], it.ref)
	}

	if previousIDs != nil && !sameIDSet(collectIDs(items), previousIDs) {
		result.MintedNew = true
	}
	return result, nil
}

// resolveGroup assigns one identifier to every item sharing a name. Items in
// a single category are left as independent duplicates only in the sense that
// they all receive the same identifier; same-category duplicates are the
// caller's problem and are not collapsed here.
func (r *Reconciler) resolveGroup(ctx context.Context, name string, group []*item, result *Result) error {
	categories := make([]catalog.Category, 0, len(group))
	for _, it := range group {
		categories = append(categories, it.category)
	}
	categories = catalog.UnionCategories(categories, nil)

	// An item arriving with a resolved identifier anchors the group: only
	// the unresolved items adopt it, and the identity's category set is
	// widened. Items that arrived resolved keep their own identifier.
	var anchored string
	for _, it := range group {
		if it.ref.ID != "" {
			anchored = it.ref.ID
			break
		}
	}

	if anchored != "" {
		// Widen only with the categories of the anchor itself and of the
		// adopting items; an item anchored elsewhere contributes nothing.
		widening := make([]catalog.Category, 0, len(group))
		for _, it := range group {
			if it.ref.ID == "" || it.ref.ID == anchored {
				widening = append(widening, it.category)
			}
		}
		if r.widen(ctx, anchored, catalog.UnionCategories(widening, nil)) {
			result.MintedNew = true
		}
		for _, it := range group {
			if it.ref.ID == "" {
				it.ref.ID = anchored
			}
		}
		return nil
	}

	resolution, err := r.directory.ResolveOrCreateTag(ctx, name, categories)
	if err != nil {
		return err
	}
	if resolution.New {
		result.MintedNew = true
	} else if r.widen(ctx, resolution.ID, categories) {
		result.MintedNew = true
	}
	for _, it := range group {
		it.ref.ID = resolution.ID
	}
	return nil
}

// widen unions categories into an existing identity's set. Persistence is
// fire-and-forget: a failure is logged, not propagated, and reconciliation
// continues with the adopted identifier. Returns whether the set grew.
func (r *Reconciler) widen(ctx context.Context, tid string, categories []catalog.Category) bool {
	record, err := r.directory.GetTag(ctx, tid)
	if err != nil {
		r.logger.Warn("tag lookup for category widening failed",
			logging.String("tid", tid),
			logging.Error(err),
		)
		return false
	}
	union := catalog.UnionCategories(record.Categories, categories)
	if len(union) == len(record.Categories) {
		return false
	}
	if err := r.directory.UpdateTagCategories(ctx, tid, union); err != nil {
		r.logger.Warn("tag category widening failed",
			logging.String("tid", tid),
			logging.Error(err),
		)
		return false
	}
	return true
}

func collectIDs(items []*item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ref.ID)
	}
	return ids
}

func sameIDSet(a, b []string) bool {
	dedup := func(in []string) []string {
		seen := make(map[string]struct{}, len(in))
		out := make([]string, 0, len(in))
		for _, id := range in {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		sort.Strings(out)
		return out
	}
	da, db := dedup(a), dedup(b)
	if len(da) != len(db) {
		return false
	}
	for i := range da {
		if da[i] != db[i] {
			return false
		}
	}
	return true
}
