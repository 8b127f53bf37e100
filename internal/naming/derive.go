package naming

import (
	"fmt"
	"strings"

	"karagen/internal/catalog"
)

// markerRule maps a tag to a short marker token in the derived filename.
// Markers are emitted in table order, never input order, so the same tag set
// always yields the same marker sequence.
type markerRule struct {
	category catalog.Category
	name     string
	marker   string
}

var markerRules = []markerRule{
	{catalog.CategoryPlatform, "Playstation 3", "PS3"},
	{catalog.CategoryPlatform, "Playstation 2", "PS2"},
	{catalog.CategoryPlatform, "Playstation", "PSX"},
	{catalog.CategoryMisc, "Cover", "COVER"},
	{catalog.CategoryMisc, "Fandub", "DUB"},
	{catalog.CategoryMisc, "Remix", "REMIX"},
	{catalog.CategoryOrigin, "Special", "SPECIAL"},
	{catalog.CategoryOrigin, "OVA", "OVA"},
	{catalog.CategoryOrigin, "ONA", "ONA"},
	{catalog.CategoryOrigin, "Movie", "MOVIE"},
	{catalog.CategoryPlatform, "Playstation 4", "PS4"},
	{catalog.CategoryPlatform, "Playstation Vita", "PSV"},
	{catalog.CategoryPlatform, "Playstation Portable", "PSP"},
	{catalog.CategoryPlatform, "XBOX 360", "XBOX360"},
	{catalog.CategoryPlatform, "XBOX ONE", "XBOXONE"},
	{catalog.CategoryPlatform, "Gamecube", "GAMECUBE"},
	{catalog.CategoryPlatform, "N64", "N64"},
	{catalog.CategoryPlatform, "DS", "DS"},
	{catalog.CategoryPlatform, "3DS", "3DS"},
	{catalog.CategoryPlatform, "PC", "PC"},
	{catalog.CategoryPlatform, "Sega CD", "SEGACD"},
	{catalog.CategoryPlatform, "Saturn", "SATURN"},
	{catalog.CategoryPlatform, "Wii", "WII"},
	{catalog.CategoryPlatform, "Wii U", "WIIU"},
	{catalog.CategoryPlatform, "Switch", "SWITCH"},
	{catalog.CategoryFamily, "Video Game", "GAME"},
	{catalog.CategoryMisc, "Audio Only", "AUDIO"},
}

// Derive computes the canonical display name for an entry from its tag and
// series data: `LANG - SUBJECT - [MARKERS ]TYPE[ORDER] - TITLE`, passed
// through the filesystem sanitizer. Pure function; entries lacking language or
// song-type information are a contract violation caught by validation, not
// handled here.
func Derive(entry *catalog.Entry) string {
	markers := make([]string, 0, 4)
	for _, rule := range markerRules {
		if entry.HasTagNamed(rule.category, rule.name) {
			markers = append(markers, rule.marker)
		}
	}
	markerPrefix := ""
	if len(markers) > 0 {
		markerPrefix = strings.Join(markers, " ") + " "
	}

	subject := ""
	if len(entry.Series) > 0 {
		subject = entry.Series[0]
	} else {
		subject = strings.Join(entry.TagNames(catalog.CategorySinger), ",")
	}

	lang := ""
	if langs := entry.TagNames(catalog.CategoryLanguage); len(langs) > 0 {
		lang = strings.ToUpper(langs[0])
	}

	songType := ""
	if types := entry.TagNames(catalog.CategorySongType); len(types) > 0 {
		songType = types[0]
	}
	order := ""
	if entry.SongOrder > 0 {
		order = fmt.Sprintf("%d", entry.SongOrder)
	}

	composed := fmt.Sprintf("%s - %s - %s%s%s - %s", lang, subject, markerPrefix, songType, order, entry.Title)
	return Sanitize(composed)
}
