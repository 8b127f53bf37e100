package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if c.Repository.Name == "" {
		return errors.New("repository.name must be set")
	}
	if c.Media.TimeoutSeconds <= 0 {
		return errors.New("media.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	fields := map[string]string{
		"paths.intake_dir": c.Paths.IntakeDir,
		"paths.import_dir": c.Paths.ImportDir,
		"paths.karas_dir":  c.Paths.KarasDir,
		"paths.medias_dir": c.Paths.MediasDir,
		"paths.lyrics_dir": c.Paths.LyricsDir,
		"paths.tags_dir":   c.Paths.TagsDir,
		"paths.series_dir": c.Paths.SeriesDir,
		"paths.data_dir":   c.Paths.DataDir,
		"paths.log_dir":    c.Paths.LogDir,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	seen := make(map[string]string, len(fields))
	for name, value := range fields {
		if other, dup := seen[value]; dup {
			return fmt.Errorf("%s and %s point at the same directory (%s)", name, other, value)
		}
		seen[value] = name
	}
	return nil
}
