package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"appcatalog/internal/cache"
	"appcatalog/internal/domain"
)

type FetchStats struct {
	Requested  int
	CacheHits  int
	NewFetches int
	Failed     int
	NoResults  int
}

// Fetcher resolves app names against the catalog, consulting the cache
// session first. It never retries a failed lookup.
type Fetcher struct {
	catalog domain.Catalog
	cache   *cache.Session
}

func NewFetcher(c domain.Catalog, s *cache.Session) *Fetcher {
	return &Fetcher{catalog: c, cache: s}
}

// FetchRecords returns one standardised record per resolved name, in input
// order. Names that fail or have no results are skipped.
func (f *Fetcher) FetchRecords(ctx context.Context, names []string) ([]domain.Record, FetchStats, error) {
	st := FetchStats{Requested: len(names)}
	out := make([]domain.Record, 0, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return out, st, err
		}

		if rec, ok := f.cache.Get(name); ok {
			st.CacheHits++
			// older cache files hold records with raw keys
			out = append(out, withName(standardize(rec), name))
			continue
		}

		res, err := f.catalog.Search(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return out, st, ctx.Err()
			}
			st.Failed++
			log.Warn().Str("app", name).Err(err).Msg("catalog lookup failed; skipping")
			continue
		}

		best, ok := res.BestMatch()
		if !ok {
			st.NoResults++
			log.Info().Str("app", name).Msg("no catalog results")
			continue
		}

		rec := withName(standardize(best), name)
		out = append(out, rec)
		f.cache.Put(name, rec)
		st.NewFetches++
	}

	log.Info().
		Int("requested", st.Requested).
		Int("cache_hits", st.CacheHits).
		Int("new", st.NewFetches).
		Int("failed", st.Failed).
		Int("no_results", st.NoResults).
		Msg("catalog fetch complete")
	return out, st, nil
}

// withName fills in the queried name when the record carries none.
func withName(rec domain.Record, name string) domain.Record {
	if firstString(rec, "name") == nil {
		rec["Name"] = name
	}
	return rec
}

// Fetch is FetchRecords reindexed onto the unified columns.
func (f *Fetcher) Fetch(ctx context.Context, names []string) ([]domain.App, FetchStats, error) {
	recs, st, err := f.FetchRecords(ctx, names)
	apps := make([]domain.App, 0, len(recs))
	for _, r := range recs {
		apps = append(apps, mapRecord(r))
	}
	return apps, st, err
}
