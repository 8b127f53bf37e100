package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/karafile"
	"karagen/internal/logging"
	"karagen/internal/services"
)

// ErrNotFound reports a lookup for an identifier the directory never minted.
var ErrNotFound = errors.New("identity not found")

const tagColumns = "tid, name, short, categories, aliases, i18n, repository, priority, problematic, no_live_download, modified_at"

// ResolveOrCreateTag returns the identifier for name, minting a new identity
// when none exists. Minting persists both the index row and the identity file
// before the transaction commits.
func (s *Store) ResolveOrCreateTag(ctx context.Context, name string, categories []catalog.Category) (Resolution, error) {
	ctx = ensureContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolution{}, services.Wrap(services.ErrDirectory, "resolving", "tag", "empty name", nil)
	}

	var resolution Resolution
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var tid string
		err = tx.QueryRowContext(ctx, "SELECT tid FROM tags WHERE name = ?", name).Scan(&tid)
		switch {
		case err == nil:
			resolution = Resolution{ID: tid}
			return tx.Commit()
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}

		record := catalog.TagRecord{
			TID:        uuid.NewString(),
			Name:       name,
			Categories: catalog.SortCategories(append([]catalog.Category(nil), categories...)),
			I18n:       map[string]string{"eng": name},
			Repository: karafile.DefaultRepository,
			Priority:   catalog.DefaultPriority,
			ModifiedAt: time.Now().UTC(),
		}
		if err := s.insertTag(ctx, tx, record); err != nil {
			return err
		}
		if _, err := s.codec.WriteTag(s.tagsDir, record); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tag %q: %w", name, err)
		}
		s.logger.Info("minted tag identity",
			logging.String("name", name),
			logging.String("tid", record.TID),
		)
		resolution = Resolution{ID: record.TID, New: true}
		return nil
	})
	if err != nil {
		return Resolution{}, services.Wrap(services.ErrDirectory, "resolving", "tag", name, err)
	}
	return resolution, nil
}

// GetTag loads the full record for an identifier.
func (s *Store) GetTag(ctx context.Context, tid string) (catalog.TagRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+tagColumns+" FROM tags WHERE tid = ?", tid)
	record, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.TagRecord{}, services.Wrap(services.ErrDirectory, "loading", "tag", tid, ErrNotFound)
	}
	if err != nil {
		return catalog.TagRecord{}, services.Wrap(services.ErrDirectory, "loading", "tag", tid, err)
	}
	return record, nil
}

// UpdateTagCategories widens the stored category set to the union with the
// given set and rewrites the identity file. The set never shrinks.
func (s *Store) UpdateTagCategories(ctx context.Context, tid string, categories []catalog.Category) error {
	ctx = ensureContext(ctx)
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		row := tx.QueryRowContext(ctx, "SELECT "+tagColumns+" FROM tags WHERE tid = ?", tid)
		record, err := scanTag(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		union := catalog.UnionCategories(record.Categories, categories)
		if len(union) == len(record.Categories) {
			return nil
		}
		record.Categories = union
		record.ModifiedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			"UPDATE tags SET categories = ?, modified_at = ? WHERE tid = ?",
			encodeCategories(record.Categories), record.ModifiedAt.Format(time.RFC3339), tid)
		if err != nil {
			return fmt.Errorf("update tag %s: %w", tid, err)
		}
		if _, err := s.codec.WriteTag(s.tagsDir, record); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tag %s: %w", tid, err)
		}
		s.logger.Info("widened tag categories",
			logging.String("tid", tid),
			logging.String("categories", encodeCategories(record.Categories)),
		)
		return nil
	})
	if err != nil {
		return services.Wrap(services.ErrDirectory, "updating", "tag categories", tid, err)
	}
	return nil
}

// ListTags returns every tag record, sorted by name.
func (s *Store) ListTags(ctx context.Context) ([]catalog.TagRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+tagColumns+" FROM tags ORDER BY name")
	if err != nil {
		return nil, services.Wrap(services.ErrDirectory, "listing", "tags", "", err)
	}
	defer rows.Close()

	var records []catalog.TagRecord
	for rows.Next() {
		record, err := scanTag(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrDirectory, "listing", "tags", "", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrDirectory, "listing", "tags", "", err)
	}
	return records, nil
}

func (s *Store) insertTag(ctx context.Context, tx *sql.Tx, record catalog.TagRecord) error {
	aliases, err := json.Marshal(record.Aliases)
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}
	i18n, err := json.Marshal(record.I18n)
	if err != nil {
		return fmt.Errorf("encode i18n: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO tags ("+tagColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.TID, record.Name, record.Short, encodeCategories(record.Categories),
		string(aliases), string(i18n), record.Repository, record.Priority,
		boolToInt(record.Problematic), boolToInt(record.NoLiveDownload),
		record.ModifiedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert tag %q: %w", record.Name, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (catalog.TagRecord, error) {
	var (
		record                      catalog.TagRecord
		categories, aliases, i18n   string
		problematic, noLiveDownload int
		modifiedAt                  string
	)
	err := row.Scan(&record.TID, &record.Name, &record.Short, &categories,
		&aliases, &i18n, &record.Repository, &record.Priority,
		&problematic, &noLiveDownload, &modifiedAt)
	if err != nil {
		return catalog.TagRecord{}, err
	}
	record.Categories = decodeCategories(categories)
	if err := json.Unmarshal([]byte(aliases), &record.Aliases); err != nil {
		return catalog.TagRecord{}, fmt.Errorf("decode aliases: %w", err)
	}
	if err := json.Unmarshal([]byte(i18n), &record.I18n); err != nil {
		return catalog.TagRecord{}, fmt.Errorf("decode i18n: %w", err)
	}
	record.Problematic = problematic != 0
	record.NoLiveDownload = noLiveDownload != 0
	if ts, err := time.Parse(time.RFC3339, modifiedAt); err == nil {
		record.ModifiedAt = ts
	}
	return record, nil
}

func encodeCategories(categories []catalog.Category) string {
	labels := make([]string, 0, len(categories))
	for _, category := range categories {
		labels = append(labels, category.Label())
	}
	return strings.Join(labels, ",")
}

func decodeCategories(encoded string) []catalog.Category {
	var categories []catalog.Category
	for _, label := range strings.Split(encoded, ",") {
		if category, ok := catalog.ParseCategoryLabel(strings.TrimSpace(label)); ok {
			categories = append(categories, category)
		}
	}
	return catalog.SortCategories(categories)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
