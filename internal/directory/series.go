package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/logging"
	"karagen/internal/services"
)

const seriesColumns = "sid, name, aliases, i18n"

// ResolveOrCreateSeries returns the identifier for a series name, minting a
// new identity when none exists. The locale seeds the minted identity's
// translation map.
func (s *Store) ResolveOrCreateSeries(ctx context.Context, name, locale string) (Resolution, error) {
	ctx = ensureContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" {
		return Resolution{}, services.Wrap(services.ErrDirectory, "resolving", "series", "empty name", nil)
	}
	if !catalog.ValidLocale(locale) {
		locale = "eng"
	}

	var resolution Resolution
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var sid string
		err = tx.QueryRowContext(ctx, "SELECT sid FROM series WHERE name = ?", name).Scan(&sid)
		switch {
		case err == nil:
			resolution = Resolution{ID: sid}
			return tx.Commit()
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("lookup series %q: %w", name, err)
		}

		record := catalog.SeriesRecord{
			SID:  uuid.NewString(),
			Name: name,
			I18n: map[string]string{locale: name},
		}
		i18n, err := json.Marshal(record.I18n)
		if err != nil {
			return fmt.Errorf("encode i18n: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO series (sid, name, aliases, i18n) VALUES (?, ?, '[]', ?)",
			record.SID, record.Name, string(i18n))
		if err != nil {
			return fmt.Errorf("insert series %q: %w", name, err)
		}
		if _, err := s.codec.WriteSeries(s.seriesDir, record); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit series %q: %w", name, err)
		}
		s.logger.Info("minted series identity",
			logging.String("name", name),
			logging.String("sid", record.SID),
		)
		resolution = Resolution{ID: record.SID, New: true}
		return nil
	})
	if err != nil {
		return Resolution{}, services.Wrap(services.ErrDirectory, "resolving", "series", name, err)
	}
	return resolution, nil
}

// GetSeries loads the full record for an identifier.
func (s *Store) GetSeries(ctx context.Context, sid string) (catalog.SeriesRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+seriesColumns+" FROM series WHERE sid = ?", sid)
	record, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.SeriesRecord{}, services.Wrap(services.ErrDirectory, "loading", "series", sid, ErrNotFound)
	}
	if err != nil {
		return catalog.SeriesRecord{}, services.Wrap(services.ErrDirectory, "loading", "series", sid, err)
	}
	return record, nil
}

// ListSeries returns every series record, sorted by name.
func (s *Store) ListSeries(ctx context.Context) ([]catalog.SeriesRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+seriesColumns+" FROM series ORDER BY name")
	if err != nil {
		return nil, services.Wrap(services.ErrDirectory, "listing", "series", "", err)
	}
	defer rows.Close()

	var records []catalog.SeriesRecord
	for rows.Next() {
		record, err := scanSeries(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrDirectory, "listing", "series", "", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrDirectory, "listing", "series", "", err)
	}
	return records, nil
}

func scanSeries(row rowScanner) (catalog.SeriesRecord, error) {
	var (
		record        catalog.SeriesRecord
		aliases, i18n string
	)
	if err := row.Scan(&record.SID, &record.Name, &aliases, &i18n); err != nil {
		return catalog.SeriesRecord{}, err
	}
	if err := json.Unmarshal([]byte(aliases), &record.Aliases); err != nil {
		return catalog.SeriesRecord{}, fmt.Errorf("decode aliases: %w", err)
	}
	if err := json.Unmarshal([]byte(i18n), &record.I18n); err != nil {
		return catalog.SeriesRecord{}, fmt.Errorf("decode i18n: %w", err)
	}
	return record, nil
}
