package catalog

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// TagRef attaches a metadata item to an entry. Before reconciliation ID may be
// empty (the caller only knows the display name); afterwards every ref carries
// a resolved identifier.
type TagRef struct {
	ID   string `json:"tid,omitempty"`
	Name string `json:"name"`
}

// Entry is the logical record for one karaoke track as it moves through the
// ingestion pipeline.
type Entry struct {
	ID        string
	Title     string
	Year      int
	SongOrder int

	// Tags groups raw or resolved tag references by category.
	Tags map[Category][]TagRef
	// Series holds raw series names; SeriesIDs the resolved identifiers.
	Series    []string
	SeriesIDs []string

	// MediaFile / SubFile are the canonical filenames once naming has run.
	// The *Orig fields carry the uploader's filenames, which are the only
	// place the real extensions survive (the intake area strips them).
	MediaFile     string
	MediaFileOrig string
	SubFile       string
	SubFileOrig   string

	MediaSize     int64
	MediaDuration int
	MediaGain     float64
	SubChecksum   string

	Repository string
	CreatedAt  time.Time
	ModifiedAt time.Time

	// HasNewTags / HasNewSeries report that reconciliation minted or widened
	// an identity; callers use them to invalidate downstream aggregates.
	HasNewTags   bool
	HasNewSeries bool

	// NoNewVideo skips the web re-encode when an edit keeps the old media.
	NoNewVideo bool
}

// TagNames returns the display names for one category, in input order.
func (e *Entry) TagNames(category Category) []string {
	refs := e.Tags[category]
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// HasTagNamed reports whether a category already carries the given name.
func (e *Entry) HasTagNamed(category Category, name string) bool {
	for _, ref := range e.Tags[category] {
		if ref.Name == name {
			return true
		}
	}
	return false
}

// AddTag appends a raw tag ref to a category, skipping duplicates by name.
func (e *Entry) AddTag(category Category, name string) {
	if e.HasTagNamed(category, name) {
		return
	}
	if e.Tags == nil {
		e.Tags = make(map[Category][]TagRef)
	}
	e.Tags[category] = append(e.Tags[category], TagRef{Name: name})
}

// Normalize trims the title and all tag/series names and drops empties.
func (e *Entry) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	for category, refs := range e.Tags {
		kept := refs[:0]
		for _, ref := range refs {
			ref.Name = strings.TrimSpace(ref.Name)
			if ref.Name == "" {
				continue
			}
			kept = append(kept, ref)
		}
		e.Tags[category] = kept
	}
	kept := e.Series[:0]
	for _, name := range e.Series {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kept = append(kept, name)
	}
	e.Series = kept
}

// Validate checks the structural invariants required before staging. It
// returns the full list of violations rather than stopping at the first.
func (e *Entry) Validate() []string {
	var violations []string
	if e.Title == "" {
		violations = append(violations, "title must not be empty")
	}
	if e.MediaFile == "" {
		violations = append(violations, "no media file uploaded")
	}
	if len(e.Series) == 0 && len(e.Tags[CategorySinger]) == 0 {
		violations = append(violations, "series and singers cannot both be empty")
	}
	if len(e.Tags[CategoryLanguage]) == 0 {
		violations = append(violations, "at least one language tag is required")
	}
	if len(e.Tags[CategorySongType]) == 0 {
		violations = append(violations, "at least one song type tag is required")
	}
	if e.Year < 0 {
		violations = append(violations, fmt.Sprintf("year %d is invalid", e.Year))
	}
	for _, ref := range e.Tags[CategoryLanguage] {
		if !ValidLocale(ref.Name) {
			violations = append(violations, fmt.Sprintf("%q is not a valid language code", ref.Name))
		}
	}
	for category, refs := range e.Tags {
		if !category.Valid() {
			violations = append(violations, fmt.Sprintf("unknown tag category %d", int(category)))
			continue
		}
		for _, ref := range refs {
			if strings.Contains(ref.Name, ",") {
				violations = append(violations, fmt.Sprintf("%s tag %q contains a comma", category.Label(), ref.Name))
			}
		}
	}
	return violations
}

// ValidLocale reports whether code is a usable language code for locale maps.
// The special codes und (undetermined), mul (multiple) and zxx (no language)
// are accepted alongside ISO 639 codes.
func ValidLocale(code string) bool {
	switch code {
	case "und", "mul", "zxx":
		return true
	}
	if len(code) < 2 || len(code) > 3 {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}
