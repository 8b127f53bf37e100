package catalog

import "time"

// DefaultPriority is the tag priority treated as unset in persisted files.
const DefaultPriority = 10

// TagRecord is the identity-side entity for a tag: a stable identifier plus
// the canonical name and every category the name has ever been tagged under.
// The category set grows monotonically as the tag is reused across entries.
type TagRecord struct {
	TID            string
	Name           string
	Short          string
	Aliases        []string
	Categories     []Category
	I18n           map[string]string
	Repository     string
	Priority       int
	Problematic    bool
	NoLiveDownload bool
	ModifiedAt     time.Time
}

// SeriesRecord is the identity-side entity for a series: one per distinct
// name string, with per-locale display names.
type SeriesRecord struct {
	SID     string
	Name    string
	Aliases []string
	I18n    map[string]string
}
