package directory

import (
	"context"

	"karagen/internal/catalog"
)

// Resolution is the outcome of a resolve-or-create call. New reports that the
// identity was minted by this call.
type Resolution struct {
	ID  string
	New bool
}

// Directory resolves canonical identifiers for tags and series by name, and
// registers new ones. Resolve-or-create is atomic per name: two concurrent
// calls for the same unknown name yield one identity.
type Directory interface {
	ResolveOrCreateTag(ctx context.Context, name string, categories []catalog.Category) (Resolution, error)
	GetTag(ctx context.Context, tid string) (catalog.TagRecord, error)
	// UpdateTagCategories widens a tag's category set. The stored set is the
	// monotonic union of the current set and the argument; it never shrinks.
	UpdateTagCategories(ctx context.Context, tid string, categories []catalog.Category) error
	ResolveOrCreateSeries(ctx context.Context, name, locale string) (Resolution, error)
	GetSeries(ctx context.Context, sid string) (catalog.SeriesRecord, error)
}
