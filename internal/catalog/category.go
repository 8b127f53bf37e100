package catalog

import "sort"

// Category classifies the semantic role of a tag. Codes are part of the
// persisted format contract and must not be renumbered.
type Category int

const (
	CategorySinger     Category = 2
	CategorySongType   Category = 3
	CategoryCreator    Category = 4
	CategoryLanguage   Category = 5
	CategoryAuthor     Category = 6
	CategoryMisc       Category = 7
	CategorySongwriter Category = 8
	CategoryGroup      Category = 9
	CategoryFamily     Category = 10
	CategoryOrigin     Category = 11
	CategoryGenre      Category = 12
	CategoryPlatform   Category = 13
)

var categoryLabels = map[Category]string{
	CategorySinger:     "singers",
	CategorySongType:   "songtypes",
	CategoryCreator:    "creators",
	CategoryLanguage:   "langs",
	CategoryAuthor:     "authors",
	CategoryMisc:       "misc",
	CategorySongwriter: "songwriters",
	CategoryGroup:      "groups",
	CategoryFamily:     "families",
	CategoryOrigin:     "origins",
	CategoryGenre:      "genres",
	CategoryPlatform:   "platforms",
}

var labelCategories = func() map[string]Category {
	m := make(map[string]Category, len(categoryLabels))
	for category, label := range categoryLabels {
		m[label] = category
	}
	return m
}()

// Categories returns every category in ascending code order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryLabels))
	for category := range categoryLabels {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether the category is one of the closed enumeration.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable label persisted in identity files.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategoryLabel translates a persisted label back to its category code.
func ParseCategoryLabel(label string) (Category, bool) {
	category, ok := labelCategories[label]
	return category, ok
}

// SortCategories orders a category set ascending in place and returns it.
func SortCategories(categories []Category) []Category {
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

// UnionCategories merges two category sets, deduplicated and sorted.
// The union is monotonic: every input member survives.
func UnionCategories(a, b []Category) []Category {
	seen := make(map[Category]struct{}, len(a)+len(b))
	out := make([]Category, 0, len(a)+len(b))
	for _, set := range [][]Category{a, b} {
		for _, category := range set {
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			out = append(out, category)
		}
	}
	return SortCategories(out)
}
