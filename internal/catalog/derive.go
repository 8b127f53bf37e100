package catalog

import (
	"path/filepath"
	"strings"
)

// Names minted by the auto-derivation rules.
const (
	videoGameFamily = "Video Game"
	audioOnlyMisc   = "Audio Only"
)

var audioExtensions = map[string]struct{}{
	".ogg": {},
	".m4a": {},
	".mp3": {},
}

var decadeGroups = []struct {
	from, to int
	name     string
}{
	{1950, 1959, "50s"},
	{1960, 1969, "60s"},
	{1970, 1979, "70s"},
	{1980, 1989, "80s"},
	{1990, 1999, "90s"},
	{2000, 2009, "2000s"},
	{2010, 2019, "2010s"},
	{2020, 2029, "2020s"},
}

// ApplyDerivedTags augments the entry's categories by fixed rules before
// reconciliation. Each rule is a set-union and therefore idempotent:
//   - any platform tag implies the Video Game family,
//   - an audio-only media extension implies the Audio Only misc tag,
//   - a year inside a known decade implies the matching decade group.
func (e *Entry) ApplyDerivedTags() {
	if len(e.Tags[CategoryPlatform]) > 0 {
		e.AddTag(CategoryFamily, videoGameFamily)
	}
	ext := strings.ToLower(filepath.Ext(e.MediaFile))
	if _, audio := audioExtensions[ext]; audio {
		e.AddTag(CategoryMisc, audioOnlyMisc)
	}
	for _, decade := range decadeGroups {
		if e.Year >= decade.from && e.Year <= decade.to {
			e.AddTag(CategoryGroup, decade.name)
			break
		}
	}
}
