package directory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/karafile"
	"karagen/internal/services"
)

// Memory is an in-process Directory used by tests and dry runs. Behavior
// mirrors the SQLite store without the identity-file side effects.
type Memory struct {
	mu     sync.Mutex
	tags   map[string]catalog.TagRecord
	series map[string]catalog.SeriesRecord

	// FailResolve, when set, makes every resolve call return an error. Tests
	// use it to exercise rollback paths.
	FailResolve error
}

// NewMemory returns an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		tags:   make(map[string]catalog.TagRecord),
		series: make(map[string]catalog.SeriesRecord),
	}
}

// SeedTag registers an existing identity, for tests that need prior state.
func (m *Memory) SeedTag(record catalog.TagRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[record.TID] = record
}

func (m *Memory) ResolveOrCreateTag(_ context.Context, name string, categories []catalog.Category) (Resolution, error) {
	if m.FailResolve != nil {
		return Resolution{}, m.FailResolve
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name = strings.TrimSpace(name)
	for tid, record := range m.tags {
		if record.Name == name {
			return Resolution{ID: tid}, nil
		}
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
	m.tags[record.TID] = record
	return Resolution{ID: record.TID, New: true}, nil
}

func (m *Memory) GetTag(_ context.Context, tid string) (catalog.TagRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.tags[tid]
	if !ok {
		return catalog.TagRecord{}, services.Wrap(services.ErrDirectory, "loading", "tag", tid, ErrNotFound)
	}
	return record, nil
}

func (m *Memory) UpdateTagCategories(_ context.Context, tid string, categories []catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.tags[tid]
	if !ok {
		return services.Wrap(services.ErrDirectory, "updating", "tag categories", tid, ErrNotFound)
	}
	record.Categories = catalog.UnionCategories(record.Categories, categories)
	m.tags[tid] = record
	return nil
}

func (m *Memory) ResolveOrCreateSeries(_ context.Context, name, locale string) (Resolution, error) {
	if m.FailResolve != nil {
		return Resolution{}, m.FailResolve
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name = strings.TrimSpace(name)
	for sid, record := range m.series {
		if record.Name == name {
			return Resolution{ID: sid}, nil
		}
	}
	if !catalog.ValidLocale(locale) {
		locale = "eng"
	}
	record := catalog.SeriesRecord{
		SID:  uuid.NewString(),
		Name: name,
		I18n: map[string]string{locale: name},
	}
	m.series[record.SID] = record
	return Resolution{ID: record.SID, New: true}, nil
}

func (m *Memory) GetSeries(_ context.Context, sid string) (catalog.SeriesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.series[sid]
	if !ok {
		return catalog.SeriesRecord{}, services.Wrap(services.ErrDirectory, "loading", "series", sid, ErrNotFound)
	}
	return record, nil
}
