package series

import (
	"context"
	"errors"
	"testing"

	"karagen/internal/directory"
	"karagen/internal/logging"
	"karagen/internal/services"
)

func TestReconcileIdempotentAcrossOrder(t *testing.T) {
	dir := directory.NewMemory()
	r := New(dir, logging.NewNop())
	ctx := context.Background()

	first, err := r.Reconcile(ctx, []string{"X", "Y"}, "eng")
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if !first.MintedNew {
		t.Fatal("first call should mint")
	}
	if len(first.IDs) != 2 {
		t.Fatalf("got %d identifiers", len(first.IDs))
	}

	second, err := r.Reconcile(ctx, []string{"Y", "X"}, "eng")
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.MintedNew {
		t.Fatal("second call should not mint")
	}
	if len(second.IDs) != 2 {
		t.Fatalf("got %d identifiers", len(second.IDs))
	}
	for i := range first.IDs {
		if first.IDs[i] != second.IDs[i] {
			t.Fatalf("identifier order differs: %v vs %v", first.IDs, second.IDs)
		}
	}
}

func TestReconcileSeedsLocale(t *testing.T) {
	dir := directory.NewMemory()
	r := New(dir, logging.NewNop())
	ctx := context.Background()

	result, err := r.Reconcile(ctx, []string{"Digimon Adventure"}, "jpn")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	record, err := dir.GetSeries(ctx, result.IDs[0])
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if record.I18n["jpn"] != "Digimon Adventure" {
		t.Fatalf("i18n = %v, want jpn seeded", record.I18n)
	}
}

func TestReconcileDeduplicatesNames(t *testing.T) {
	dir := directory.NewMemory()
	r := New(dir, logging.NewNop())

	result, err := r.Reconcile(context.Background(), []string{"X", "X"}, "eng")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(result.IDs) != 1 {
		t.Fatalf("got %d identifiers, want 1", len(result.IDs))
	}
}

func TestReconcilePropagatesDirectoryFailure(t *testing.T) {
	dir := directory.NewMemory()
	dir.FailResolve = services.Wrap(services.ErrDirectory, "resolving", "series", "down", nil)
	r := New(dir, logging.NewNop())

	_, err := r.Reconcile(context.Background(), []string{"X"}, "eng")
	if !errors.Is(err, services.ErrDirectory) {
		t.Fatalf("err = %v, want ErrDirectory", err)
	}
}
