package domain

import (
	"context"
	"time"
)

type Catalog interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}

// RecordStore persists the name -> record cache as a whole.
// Load returns an empty map when nothing has been stored yet.
type RecordStore interface {
	Load(ctx context.Context) (map[string]Record, error)
	Save(ctx context.Context, entries map[string]Record) error
	Name() string
}

type AppRepository interface {
	UpsertApps(ctx context.Context, runID string, apps []App) error
	RecordRun(ctx context.Context, run RunSummary) error
}

// CategoryCounter is implemented by repositories that can report what a run
// stored per source and category.
type CategoryCounter interface {
	CountByCategory(ctx context.Context, runID string) ([]CategoryCount, error)
}

type CategoryCount struct {
	Source   string
	Category string
	Count    int
}

type RunSummary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	CleanedRows  int
	CombinedRows int
	CacheHits    int
	NewFetches   int
	Failed       int
	Mock         bool
}
