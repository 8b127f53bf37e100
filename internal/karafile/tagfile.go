package karafile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/logging"
	"karagen/internal/naming"
	"karagen/internal/services"
)

// tagDocument is the persisted tag identity envelope.
type tagDocument struct {
	Header Header     `json:"header"`
	Tag    tagPayload `json:"tag"`
}

// tagPayload fields are declared in key order so serialized output is sorted.
// Category values are persisted as human-readable labels; the read side also
// tolerates numeric codes from older writers.
type tagPayload struct {
	Aliases        []string          `json:"aliases,omitempty"`
	I18n           map[string]string `json:"i18n,omitempty"`
	ModifiedAt     string            `json:"modified_at,omitempty"`
	Name           string            `json:"name"`
	NoLiveDownload bool              `json:"noLiveDownload,omitempty"`
	Priority       int               `json:"priority,omitempty"`
	Problematic    bool              `json:"problematic,omitempty"`
	Repository     string            `json:"repository,omitempty"`
	Short          string            `json:"short,omitempty"`
	TID            string            `json:"tid"`
	Types          []json.RawMessage `json:"types"`
}

// ReadTag loads a tag identity file, translating legacy category labels and
// applying defaults for absent optional fields.
func (c *Codec) ReadTag(path string) (catalog.TagRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.TagRecord{}, services.Wrap(services.ErrIO, "reading", "tag file", path, err)
	}
	var doc tagDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return catalog.TagRecord{}, malformed("tag file", path, err)
	}
	if err := c.checkVersion("tag file", doc.Header.Version, TagFileVersion); err != nil {
		return catalog.TagRecord{}, err
	}

	var violations []string
	if strings.TrimSpace(doc.Tag.Name) == "" {
		violations = append(violations, "name must not be empty")
	}
	if _, err := uuid.Parse(doc.Tag.TID); err != nil {
		violations = append(violations, fmt.Sprintf("tid %q is not a valid identifier", doc.Tag.TID))
	}
	for locale := range doc.Tag.I18n {
		if !catalog.ValidLocale(locale) {
			violations = append(violations, fmt.Sprintf("i18n key %q is not a valid language code", locale))
		}
	}

	categories, dropped := c.translateCategories(doc.Tag.Types)
	if len(dropped) > 0 {
		c.logger.Warn("tag file has unknown categories",
			logging.String("path", path),
			logging.String("dropped", strings.Join(dropped, ", ")),
		)
	}
	if len(categories) == 0 {
		violations = append(violations, "no known categories remain after translation")
	}
	if len(violations) > 0 {
		return catalog.TagRecord{}, invalid("tag file", path, violations)
	}

	record := catalog.TagRecord{
		TID:            doc.Tag.TID,
		Name:           doc.Tag.Name,
		Short:          doc.Tag.Short,
		Aliases:        doc.Tag.Aliases,
		Categories:     catalog.SortCategories(categories),
		I18n:           doc.Tag.I18n,
		Repository:     doc.Tag.Repository,
		Priority:       doc.Tag.Priority,
		Problematic:    doc.Tag.Problematic,
		NoLiveDownload: doc.Tag.NoLiveDownload,
	}
	if record.Repository == "" {
		record.Repository = DefaultRepository
	}
	if record.Priority == 0 {
		record.Priority = catalog.DefaultPriority
	}
	if ts, ok := parseTimestamp(doc.Tag.ModifiedAt); ok {
		record.ModifiedAt = ts
	} else {
		record.ModifiedAt = defaultModifiedAt
	}
	return record, nil
}

// translateCategories accepts labels and numeric codes, dropping anything
// unrecognized. The dropped slice carries the original values for warnings.
func (c *Codec) translateCategories(raw []json.RawMessage) ([]catalog.Category, []string) {
	categories := make([]catalog.Category, 0, len(raw))
	var dropped []string
	seen := make(map[catalog.Category]struct{}, len(raw))
	add := func(category catalog.Category) {
		if _, dup := seen[category]; dup {
			return
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	for _, value := range raw {
		var label string
		if err := json.Unmarshal(value, &label); err == nil {
			if category, ok := catalog.ParseCategoryLabel(label); ok {
				add(category)
			} else {
				dropped = append(dropped, label)
			}
			continue
		}
		var code int
		if err := json.Unmarshal(value, &code); err == nil {
			if category := catalog.Category(code); category.Valid() {
				add(category)
			} else {
				dropped = append(dropped, fmt.Sprintf("%d", code))
			}
			continue
		}
		dropped = append(dropped, strings.TrimSpace(string(value)))
	}
	return categories, dropped
}

// WriteTag persists a tag identity file named from the sanitized canonical
// name plus the identifier's short form, so same-named tags in different
// categories never collide. Returns the written path.
func (c *Codec) WriteTag(destDir string, record catalog.TagRecord) (string, error) {
	filename := fmt.Sprintf("%s.%s.tag.json", naming.Sanitize(record.Name), shortID(record.TID))
	path := filepath.Join(destDir, filename)
	if err := writeDocument(path, formatTag(record)); err != nil {
		return "", err
	}
	return path, nil
}

// TagFilename returns the identity filename WriteTag would use for record.
func TagFilename(record catalog.TagRecord) string {
	return fmt.Sprintf("%s.%s.tag.json", naming.Sanitize(record.Name), shortID(record.TID))
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}

// formatTag strips fields equal to their defaults so serialized size stays
// minimal and diffs stay clean.
func formatTag(record catalog.TagRecord) tagDocument {
	payload := tagPayload{
		I18n:           record.I18n,
		ModifiedAt:     formatTimestamp(record.ModifiedAt),
		Name:           record.Name,
		NoLiveDownload: record.NoLiveDownload,
		Problematic:    record.Problematic,
		Repository:     record.Repository,
		Short:          record.Short,
		TID:            record.TID,
	}
	if len(record.Aliases) > 0 {
		payload.Aliases = append([]string(nil), record.Aliases...)
		sort.Strings(payload.Aliases)
	}
	if record.Priority != catalog.DefaultPriority {
		payload.Priority = record.Priority
	}
	if record.ModifiedAt.IsZero() {
		payload.ModifiedAt = formatTimestamp(defaultModifiedAt)
	}
	labels := make([]json.RawMessage, 0, len(record.Categories))
	for _, category := range catalog.SortCategories(append([]catalog.Category(nil), record.Categories...)) {
		label, _ := json.Marshal(category.Label())
		labels = append(labels, label)
	}
	payload.Types = labels
	return tagDocument{
		Header: Header{Description: tagFileDescription, Version: TagFileVersion},
		Tag:    payload,
	}
}
