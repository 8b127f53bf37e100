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
	"karagen/internal/naming"
	"karagen/internal/services"
)

type seriesDocument struct {
	Header Header        `json:"header"`
	Series seriesPayload `json:"series"`
}

// seriesPayload fields are declared in key order so serialized output is sorted.
type seriesPayload struct {
	Aliases []string          `json:"aliases,omitempty"`
	I18n    map[string]string `json:"i18n"`
	Name    string            `json:"name"`
	SID     string            `json:"sid"`
}

// ReadSeries loads a series identity file.
func (c *Codec) ReadSeries(path string) (catalog.SeriesRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.SeriesRecord{}, services.Wrap(services.ErrIO, "reading", "series file", path, err)
	}
	var doc seriesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return catalog.SeriesRecord{}, malformed("series file", path, err)
	}
	if err := c.checkVersion("series file", doc.Header.Version, SeriesFileVersion); err != nil {
		return catalog.SeriesRecord{}, err
	}

	var violations []string
	if strings.TrimSpace(doc.Series.Name) == "" {
		violations = append(violations, "name must not be empty")
	}
	if _, err := uuid.Parse(doc.Series.SID); err != nil {
		violations = append(violations, fmt.Sprintf("sid %q is not a valid identifier", doc.Series.SID))
	}
	for locale := range doc.Series.I18n {
		if !catalog.ValidLocale(locale) {
			violations = append(violations, fmt.Sprintf("i18n key %q is not a valid language code", locale))
		}
	}
	if len(violations) > 0 {
		return catalog.SeriesRecord{}, invalid("series file", path, violations)
	}

	return catalog.SeriesRecord{
		SID:     doc.Series.SID,
		Name:    doc.Series.Name,
		Aliases: doc.Series.Aliases,
		I18n:    doc.Series.I18n,
	}, nil
}

// WriteSeries persists a series identity file named from the sanitized
// canonical name. Returns the written path.
func (c *Codec) WriteSeries(destDir string, record catalog.SeriesRecord) (string, error) {
	path := filepath.Join(destDir, SeriesFilename(record))
	if err := writeDocument(path, formatSeries(record)); err != nil {
		return "", err
	}
	return path, nil
}

// SeriesFilename returns the identity filename WriteSeries would use for record.
func SeriesFilename(record catalog.SeriesRecord) string {
	return fmt.Sprintf("%s.series.json", naming.Sanitize(record.Name))
}

func formatSeries(record catalog.SeriesRecord) seriesDocument {
	payload := seriesPayload{
		I18n: record.I18n,
		Name: record.Name,
		SID:  record.SID,
	}
	if payload.I18n == nil {
		payload.I18n = map[string]string{}
	}
	if len(record.Aliases) > 0 {
		payload.Aliases = append([]string(nil), record.Aliases...)
		sort.Strings(payload.Aliases)
	}
	return seriesDocument{
		Header: Header{Description: seriesFileDescription, Version: SeriesFileVersion},
		Series: payload,
	}
}
