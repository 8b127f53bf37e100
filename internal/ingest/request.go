package ingest

import (
	"encoding/json"
	"os"
	"strings"

	"karagen/internal/catalog"
	"karagen/internal/services"
)

// Request describes one ingestion. The intake area strips extensions from
// uploads, so the original filenames travel alongside the intake names and
// are the only place the real extensions survive.
type Request struct {
	Title     string              `json:"title"`
	Year      int                 `json:"year,omitempty"`
	SongOrder int                 `json:"songorder,omitempty"`
	Tags      map[string][]string `json:"tags"`
	Series    []string            `json:"series,omitempty"`

	// MediaIntake is the extension-less filename inside the intake area;
	// MediaFileOrig the uploader's original filename.
	MediaIntake   string `json:"media_intake"`
	MediaFileOrig string `json:"media_file_orig"`
	SubIntake     string `json:"sub_intake,omitempty"`
	SubFileOrig   string `json:"sub_file_orig,omitempty"`

	// Edit fields: KID of the entry being edited, the path of its current
	// catalog file, and whether the old media is kept as-is.
	EditKID          string `json:"edit_kid,omitempty"`
	PreviousKaraPath string `json:"previous_kara_path,omitempty"`
	NoNewVideo       bool   `json:"no_new_video,omitempty"`

	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// LoadRequest reads a request document from disk.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, services.Wrap(services.ErrIO, "receiving", "request", path, err)
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, services.Wrap(services.ErrMalformed, "receiving", "request", path, err)
	}
	return req, nil
}

// tagRefs translates the request's label-keyed tag lists into the entry
// shape. Unknown labels are a validation failure, reported together.
func (r Request) tagRefs() (map[catalog.Category][]catalog.TagRef, []string) {
	refs := make(map[catalog.Category][]catalog.TagRef, len(r.Tags))
	var unknown []string
	for label, names := range r.Tags {
		category, ok := catalog.ParseCategoryLabel(strings.TrimSpace(label))
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		for _, name := range names {
			refs[category] = append(refs[category], catalog.TagRef{Name: name})
		}
	}
	return refs, unknown
}
