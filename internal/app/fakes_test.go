package app_test

import (
	"context"
	"errors"

	"appcatalog/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	calls   map[string]int
	fail    map[string]bool
	empty   map[string]bool
	records map[string]domain.Record
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{calls: map[string]int{}, fail: map[string]bool{}, empty: map[string]bool{}, records: map[string]domain.Record{}}
}

func (f *fakeCatalog) Search(ctx context.Context, q string) (domain.SearchResult, error) {
	f.calls[q]++
	if f.fail[q] {
		return domain.SearchResult{}, errors.New("connection reset")
	}
	if f.empty[q] {
		return domain.SearchResult{}, nil
	}
	rec, ok := f.records[q]
	if !ok {
		rec = domain.Record{
			"Name":                 q,
			"Category":             "GAME",
			"Reviews":              100.0,
			"Installs":             5000.0,
			"Content Rating":       "Everyone",
			"Required Android Ver": "iOS 14.0+",
			"Last Updated":         "May 01, 2024",
			"Source":               "App Store",
		}
	}
	// a second, worse match that must be ignored
	return domain.SearchResult{Results: []domain.Record{rec, {"Name": q + " Lite"}}}, nil
}

func (f *fakeCatalog) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type memStore struct {
	data  map[string]domain.Record
	saves int
}

func (m *memStore) Name() string { return "mem" }
func (m *memStore) Load(context.Context) (map[string]domain.Record, error) {
	out := make(map[string]domain.Record, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}
func (m *memStore) Save(_ context.Context, e map[string]domain.Record) error {
	m.saves++
	m.data = make(map[string]domain.Record, len(e))
	for k, v := range e {
		m.data[k] = v
	}
	return nil
}

type fakeRepo struct {
	runID string
	apps  []domain.App
	runs  []domain.RunSummary
}

// countingRepo also reports stored rows per category, as the MySQL sink does.
type countingRepo struct {
	fakeRepo
	countedRun string
}

func (c *countingRepo) CountByCategory(_ context.Context, runID string) ([]domain.CategoryCount, error) {
	c.countedRun = runID
	by := map[[2]string]int{}
	for _, a := range c.apps {
		if a.Category != "" {
			by[[2]string{a.Source, a.Category}]++
		}
	}
	out := make([]domain.CategoryCount, 0, len(by))
	for k, n := range by {
		out = append(out, domain.CategoryCount{Source: k[0], Category: k[1], Count: n})
	}
	return out, nil
}

func (f *fakeRepo) UpsertApps(_ context.Context, runID string, apps []domain.App) error {
	f.runID, f.apps = runID, apps
	return nil
}
func (f *fakeRepo) RecordRun(_ context.Context, r domain.RunSummary) error {
	f.runs = append(f.runs, r)
	return nil
}

func ptr[T any](v T) *T { return &v }
