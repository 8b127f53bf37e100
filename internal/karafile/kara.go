package karafile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/services"
)

// KaraDocument is the current catalog-entry format (v4).
type KaraDocument struct {
	Header Header   `json:"header"`
	Medias []Media  `json:"medias"`
	Data   KaraData `json:"data"`
}

// Media describes one media file attached to an entry.
type Media struct {
	Version   string   `json:"version"`
	Filename  string   `json:"filename"`
	AudioGain float64  `json:"audiogain"`
	Duration  int      `json:"duration"`
	Filesize  int64    `json:"filesize"`
	Default   bool     `json:"default"`
	Lyrics    []Lyrics `json:"lyrics"`
}

// Lyrics describes one subtitle file attached to a media.
type Lyrics struct {
	Filename    string `json:"filename"`
	Default     bool   `json:"default"`
	Version     string `json:"version"`
	Subchecksum string `json:"subchecksum"`
}

// KaraData carries the descriptive payload of an entry. Tag references are
// grouped by category label; identifier lists only, names live in the
// identity files.
type KaraData struct {
	Title      string              `json:"title"`
	SIDs       []string            `json:"sids"`
	Year       int                 `json:"year,omitempty"`
	SongOrder  int                 `json:"songorder,omitempty"`
	Tags       map[string][]string `json:"tags"`
	Repository string              `json:"repository"`
	CreatedAt  string              `json:"created_at"`
	ModifiedAt string              `json:"modified_at"`
	KID        string              `json:"kid"`
}

// karaMirror is the legacy flat format (v3) kept for older readers:
// denormalized comma-joined display names instead of identifier lists.
// Field order follows the serialized key order of historic files.
type karaMirror struct {
	KID           string  `json:"KID"`
	Author        string  `json:"author"`
	Creator       string  `json:"creator"`
	DateAdded     int64   `json:"dateadded"`
	DateModif     int64   `json:"datemodif"`
	Lang          string  `json:"lang"`
	MediaDuration int     `json:"mediaduration"`
	MediaFile     string  `json:"mediafile"`
	MediaGain     float64 `json:"mediagain"`
	MediaSize     int64   `json:"mediasize"`
	Order         int     `json:"order"`
	Series        string  `json:"series"`
	Singer        string  `json:"singer"`
	Songwriter    string  `json:"songwriter"`
	SubChecksum   string  `json:"subchecksum"`
	SubFile       string  `json:"subfile"`
	Tags          string  `json:"tags"`
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	Version       int     `json:"version"`
	Year          int     `json:"year"`
}

// ReadKara loads a current-format catalog entry file without touching any
// referenced media.
func (c *Codec) ReadKara(path string) (KaraDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KaraDocument{}, services.Wrap(services.ErrIO, "reading", "kara file", path, err)
	}
	var doc KaraDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return KaraDocument{}, malformed("kara file", path, err)
	}
	if err := c.checkVersion("kara file", doc.Header.Version, KaraFileVersion); err != nil {
		return KaraDocument{}, err
	}

	var violations []string
	if strings.TrimSpace(doc.Data.Title) == "" {
		violations = append(violations, "title must not be empty")
	}
	if _, err := uuid.Parse(doc.Data.KID); err != nil {
		violations = append(violations, fmt.Sprintf("kid %q is not a valid identifier", doc.Data.KID))
	}
	if len(doc.Medias) == 0 {
		violations = append(violations, "at least one media is required")
	}
	for label := range doc.Data.Tags {
		if _, ok := catalog.ParseCategoryLabel(label); !ok {
			violations = append(violations, fmt.Sprintf("unknown tag category %q", label))
		}
	}
	if len(doc.Data.Tags[catalog.CategoryLanguage.Label()]) == 0 {
		violations = append(violations, "langs must not be empty")
	}
	if len(doc.Data.Tags[catalog.CategorySongType.Label()]) == 0 {
		violations = append(violations, "songtypes must not be empty")
	}
	if len(violations) > 0 {
		return KaraDocument{}, invalid("kara file", path, violations)
	}

	if doc.Data.Repository == "" {
		doc.Data.Repository = DefaultRepository
	}
	if doc.Data.ModifiedAt == "" {
		doc.Data.ModifiedAt = formatTimestamp(defaultModifiedAt)
	}
	return doc, nil
}

// FormatKara builds the current-format document for a reconciled entry.
func FormatKara(entry *catalog.Entry) KaraDocument {
	tags := make(map[string][]string, len(entry.Tags))
	for category, refs := range entry.Tags {
		if len(refs) == 0 {
			continue
		}
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.ID)
		}
		tags[category.Label()] = ids
	}

	var lyrics []Lyrics
	if entry.SubFile != "" {
		lyrics = []Lyrics{{
			Filename:    entry.SubFile,
			Default:     true,
			Version:     "Default",
			Subchecksum: entry.SubChecksum,
		}}
	}

	repository := entry.Repository
	if repository == "" {
		repository = DefaultRepository
	}

	return KaraDocument{
		Header: Header{Description: karaFileDescription, Version: KaraFileVersion},
		Medias: []Media{{
			Version:   "Default",
			Filename:  entry.MediaFile,
			AudioGain: entry.MediaGain,
			Duration:  entry.MediaDuration,
			Filesize:  entry.MediaSize,
			Default:   true,
			Lyrics:    lyrics,
		}},
		Data: KaraData{
			Title:      entry.Title,
			SIDs:       append([]string(nil), entry.SeriesIDs...),
			Year:       entry.Year,
			SongOrder:  entry.SongOrder,
			Tags:       tags,
			Repository: repository,
			CreatedAt:  formatTimestamp(entry.CreatedAt),
			ModifiedAt: formatTimestamp(entry.ModifiedAt),
			KID:        entry.ID,
		},
	}
}

// WriteKara persists an entry in both the current format and the legacy
// mirror, one logical write fanning out to two codecs. Returns the
// current-format path.
func (c *Codec) WriteKara(destDir string, entry *catalog.Entry) (string, error) {
	base := strings.TrimSuffix(entry.MediaFile, filepath.Ext(entry.MediaFile))
	currentPath := filepath.Join(destDir, base+".kara.json")
	mirrorPath := filepath.Join(destDir, base+".kara")

	if err := writeDocument(currentPath, FormatKara(entry)); err != nil {
		return "", err
	}
	if err := writeDocument(mirrorPath, formatKaraMirror(entry)); err != nil {
		// The pair is one logical write; a current-format file without its
		// mirror must not stay visible in the catalog.
		_ = os.Remove(currentPath)
		return "", err
	}
	return currentPath, nil
}

func formatKaraMirror(entry *catalog.Entry) karaMirror {
	joined := func(category catalog.Category) string {
		return strings.Join(entry.TagNames(category), ",")
	}
	songType := ""
	if types := entry.TagNames(catalog.CategorySongType); len(types) > 0 {
		songType = types[0]
	}
	lang := ""
	if langs := entry.TagNames(catalog.CategoryLanguage); len(langs) > 0 {
		lang = langs[0]
	}
	return karaMirror{
		KID:           entry.ID,
		Author:        joined(catalog.CategoryAuthor),
		Creator:       joined(catalog.CategoryCreator),
		DateAdded:     entry.CreatedAt.UTC().Unix(),
		DateModif:     entry.ModifiedAt.UTC().Unix(),
		Lang:          lang,
		MediaDuration: entry.MediaDuration,
		MediaFile:     entry.MediaFile,
		MediaGain:     entry.MediaGain,
		MediaSize:     entry.MediaSize,
		Order:         entry.SongOrder,
		Series:        strings.Join(entry.Series, ","),
		Singer:        joined(catalog.CategorySinger),
		Songwriter:    joined(catalog.CategorySongwriter),
		SubChecksum:   entry.SubChecksum,
		SubFile:       entry.SubFile,
		Tags:          joined(catalog.CategoryMisc),
		Title:         entry.Title,
		Type:          songType,
		Version:       KaraMirrorVersion,
		Year:          entry.Year,
	}
}
