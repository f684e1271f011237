package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"appcatalog/internal/adapters/observability"
	"appcatalog/internal/cache"
	"appcatalog/internal/dataset"
	"appcatalog/internal/domain"
	"appcatalog/internal/ingest"
)

type BuildConfig struct {
	PlayStoreCSV string
	ReviewsCSV   string
	CleanedCSV   string
	CombinedCSV  string
	PerCategory  int
	Seed         int64
	Mock         bool // recorded in the run summary only
}

type Result struct {
	RunID      string
	Load       ingest.LoadStats
	Cleaned    []domain.App
	Sampled    []domain.App
	Fetched    []domain.App
	Combined   []domain.App
	Fetch      FetchStats
	ByCategory map[string]int // sampled Play Store rows per category
	Stored     []domain.CategoryCount
}

// Builder runs the whole pipeline once. repo may be nil.
type Builder struct {
	cfg     BuildConfig
	catalog domain.Catalog
	store   domain.RecordStore
	repo    domain.AppRepository
	now     func() time.Time
}

func NewBuilder(cfg BuildConfig, c domain.Catalog, store domain.RecordStore, repo domain.AppRepository) *Builder {
	if cfg.PerCategory <= 0 {
		cfg.PerCategory = 200
	}
	return &Builder{cfg: cfg, catalog: c, store: store, repo: repo, now: time.Now}
}

func (b *Builder) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	started := b.now()
	l := observability.ForRun(log.Logger, res.RunID)

	// 1) primary dataset; a missing file is fatal
	l.Info().Str("path", b.cfg.PlayStoreCSV).Msg("loading play store dataset")
	apps, ls, err := ingest.LoadPlayStore(b.cfg.PlayStoreCSV)
	if err != nil {
		return res, err
	}
	res.Load = ls
	l.Info().
		Int("read", ls.Read).
		Int("dropped_sentinel", ls.DroppedSentinel).
		Int("dropped_duplicates", ls.DroppedDuplicates).
		Int("kept", ls.Kept).
		Msg("play store dataset cleaned")

	// 2) sentiment; a missing reviews file is not
	means, err := ingest.LoadSentiment(b.cfg.ReviewsCSV)
	if err != nil {
		return res, err
	}
	res.Cleaned = ingest.MergeSentiment(apps, means)
	l.Info().Int("apps_with_reviews", len(means)).Msg("sentiment merged")

	// 3) deliverable 1
	if err := writeApps(b.cfg.CleanedCSV, "cleaned", res.Cleaned); err != nil {
		return res, fmt.Errorf("write cleaned dataset: %w", err)
	}

	// 4) balanced sample
	res.Sampled = StratifiedSample(res.Cleaned, b.cfg.PerCategory, b.cfg.Seed)
	res.ByCategory = CountByCategory(res.Sampled)
	names := UniqueNames(res.Sampled)
	l.Info().
		Int("per_category", b.cfg.PerCategory).
		Int("categories", len(res.ByCategory)).
		Int("sampled", len(res.Sampled)).
		Int("unique_names", len(names)).
		Msg("stratified sample drawn")

	// 5) catalog lookups through a run-scoped cache
	sess, err := cache.Open(ctx, b.store)
	if err != nil {
		return res, err
	}
	fetched, fst, fetchErr := NewFetcher(b.catalog, sess).Fetch(ctx, names)
	if err := errors.Join(fetchErr, sess.Close(ctx)); err != nil {
		return res, err
	}
	res.Fetched, res.Fetch = fetched, fst

	// 6) deliverable 2
	res.Combined = make([]domain.App, 0, len(res.Sampled)+len(res.Fetched))
	res.Combined = append(res.Combined, res.Sampled...)
	res.Combined = append(res.Combined, res.Fetched...)
	if err := writeApps(b.cfg.CombinedCSV, "combined", res.Combined); err != nil {
		return res, fmt.Errorf("write combined dataset: %w", err)
	}
	l.Info().
		Int("play_store", len(res.Sampled)).
		Int("app_store", len(res.Fetched)).
		Int("total", len(res.Combined)).
		Msg("combined dataset saved")

	// 7) optional relational sink
	if b.repo != nil {
		if err := b.repo.UpsertApps(ctx, res.RunID, res.Combined); err != nil {
			return res, fmt.Errorf("sink combined rows: %w", err)
		}
		if err := b.repo.RecordRun(ctx, domain.RunSummary{
			RunID:        res.RunID,
			StartedAt:    started,
			FinishedAt:   b.now(),
			CleanedRows:  len(res.Cleaned),
			CombinedRows: len(res.Combined),
			CacheHits:    fst.CacheHits,
			NewFetches:   fst.NewFetches,
			Failed:       fst.Failed,
			Mock:         b.cfg.Mock,
		}); err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
		l.Info().Int("rows", len(res.Combined)).Msg("combined rows stored")

		if cc, ok := b.repo.(domain.CategoryCounter); ok {
			res.Stored = b.reportStored(ctx, l, cc, res.RunID)
		}
	}
	return res, nil
}

// reportStored logs what the sink holds for the run per source and category
// and flags any Play Store category above the sampling cap.
func (b *Builder) reportStored(ctx context.Context, l zerolog.Logger, cc domain.CategoryCounter, runID string) []domain.CategoryCount {
	counts, err := cc.CountByCategory(ctx, runID)
	if err != nil {
		l.Warn().Err(err).Msg("count stored rows failed")
		return nil
	}
	d := zerolog.Dict()
	for _, c := range counts {
		d = d.Int(c.Source+"/"+c.Category, c.Count)
		if c.Source == domain.SourcePlayStore && c.Count > b.cfg.PerCategory {
			l.Warn().
				Str("category", c.Category).
				Int("count", c.Count).
				Int("per_category", b.cfg.PerCategory).
				Msg("stored category exceeds sampling cap")
		}
	}
	l.Info().Dict("by_category", d).Int("groups", len(counts)).Msg("stored rows per category")
	return counts
}

func writeApps(path, name string, apps []domain.App) error {
	rows := make([][]string, len(apps))
	for i, a := range apps {
		rows[i] = a.Row()
	}
	if err := dataset.WriteFile(path, domain.Columns, rows); err != nil {
		return err
	}
	observability.ObserveRows(name, len(rows))

	ev := log.Info().Str("dataset", name).Str("path", path).Int("rows", len(rows))
	if fi, err := os.Stat(path); err == nil {
		ev = ev.Str("size", humanize.IBytes(uint64(fi.Size())))
	}
	ev.Msg("dataset saved")
	return nil
}
