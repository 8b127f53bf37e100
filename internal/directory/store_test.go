package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"karagen/internal/catalog"
	"karagen/internal/karafile"
	"karagen/internal/logging"
	"karagen/internal/testsupport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResolveOrCreateTagMintsOnce(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.ResolveOrCreateTag(ctx, "Kouji Wada", []catalog.Category{catalog.CategorySinger})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !first.New {
		t.Fatal("first resolve should mint")
	}

	second, err := store.ResolveOrCreateTag(ctx, "Kouji Wada", []catalog.Category{catalog.CategorySongwriter})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.New {
		t.Fatal("second resolve should reuse")
	}
	if second.ID != first.ID {
		t.Fatalf("identifiers differ: %s vs %s", first.ID, second.ID)
	}
}

func TestResolveOrCreateTagWritesIdentityFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	res, err := store.ResolveOrCreateTag(context.Background(), "Toei Animation", []catalog.Category{catalog.CategoryCreator})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	record, err := store.GetTag(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	path := filepath.Join(cfg.Paths.TagsDir, karafile.TagFilename(record))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("identity file missing: %v", err)
	}
}

func TestUpdateTagCategoriesIsMonotonic(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	res, err := store.ResolveOrCreateTag(ctx, "Alice", []catalog.Category{catalog.CategoryCreator})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := store.UpdateTagCategories(ctx, res.ID, []catalog.Category{catalog.CategorySongwriter}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	// Narrower set must not shrink the stored one.
	if err := store.UpdateTagCategories(ctx, res.ID, []catalog.Category{catalog.CategoryCreator}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	record, err := store.GetTag(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	want := []catalog.Category{catalog.CategoryCreator, catalog.CategorySongwriter}
	if len(record.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", record.Categories, want)
	}
	for i := range want {
		if record.Categories[i] != want[i] {
			t.Fatalf("categories = %v, want %v", record.Categories, want)
		}
	}
}

func TestGetTagNotFound(t *testing.T) {
	store := openStore(t)
	_, err := store.GetTag(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveOrCreateSeries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	first, err := store.ResolveOrCreateSeries(ctx, "Digimon Adventure", "jpn")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !first.New {
		t.Fatal("first resolve should mint")
	}
	second, err := store.ResolveOrCreateSeries(ctx, "Digimon Adventure", "eng")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.New || second.ID != first.ID {
		t.Fatalf("second resolve = %+v, want reuse of %s", second, first.ID)
	}

	record, err := store.GetSeries(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if record.I18n["jpn"] != "Digimon Adventure" {
		t.Fatalf("i18n = %v, want jpn seeded", record.I18n)
	}
	path := filepath.Join(cfg.Paths.SeriesDir, karafile.SeriesFilename(record))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("identity file missing: %v", err)
	}
}

func TestListTagsSorted(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if _, err := store.ResolveOrCreateTag(ctx, name, []catalog.Category{catalog.CategoryMisc}); err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
	}
	records, err := store.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Name != "Alpha" || records[2].Name != "Zeta" {
		t.Fatalf("not sorted by name: %v", []string{records[0].Name, records[1].Name, records[2].Name})
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	_, err = Open(cfg, logging.NewNop())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}
