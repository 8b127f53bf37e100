package catalog

import "testing"

func TestCategoryLabelRoundTrip(t *testing.T) {
	for _, category := range Categories() {
		label := category.Label()
		if label == "" {
			t.Fatalf("category %d has no label", int(category))
		}
		parsed, ok := ParseCategoryLabel(label)
		if !ok || parsed != category {
			t.Fatalf("label %q parsed to %d, want %d", label, int(parsed), int(category))
		}
	}
}

func TestParseCategoryLabelUnknown(t *testing.T) {
	if _, ok := ParseCategoryLabel("flavours"); ok {
		t.Fatal("unknown label should not parse")
	}
}

func TestUnionCategoriesMonotonicSorted(t *testing.T) {
	got := UnionCategories(
		[]Category{CategorySongwriter, CategoryCreator},
		[]Category{CategoryCreator, CategorySinger},
	)
	want := []Category{CategorySinger, CategoryCreator, CategorySongwriter}
	if len(got) != len(want) {
		t.Fatalf("union = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("union = %v, want %v", got, want)
		}
	}
}
