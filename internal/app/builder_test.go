package app_test

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"appcatalog/internal/adapters/appstore"
	"appcatalog/internal/app"
	"appcatalog/internal/cache"
	"appcatalog/internal/domain"
)

const header = "App,Category,Rating,Reviews,Size,Installs,Type,Price,Content Rating,Genres,Last Updated,Current Ver,Android Ver\n"

func writePlayStore(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < 5; i++ {
		b.WriteString("Game " + strconv.Itoa(i) + ",GAME,4.2,10,12M,\"1,000+\",Free,0,Everyone,Action,\"May 1, 2018\",1.0,4.1 and up\n")
	}
	b.WriteString("Photo,PHOTOGRAPHY,4.0,3,300k,500+,Paid,$2.49,Everyone,Photography,\"May 2, 2018\",1.1,5.0 and up\n")
	b.WriteString("Photo,PHOTOGRAPHY,4.0,3,300k,500+,Paid,$2.49,Everyone,Photography,\"May 2, 2018\",1.1,5.0 and up\n")
	b.WriteString("Shifted,1.9,19,3.0M,\"1,000+\",Free,0,Everyone,,\"February 11, 2018\",1.0.19,4.0 and up,\n")
	p := filepath.Join(dir, "apps.csv")
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func readCSV(t *testing.T, p string) [][]string {
	t.Helper()
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestBuilder_Run_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	reviews := filepath.Join(dir, "reviews.csv")
	if err := os.WriteFile(reviews, []byte("App,Translated_Review,Sentiment,Sentiment_Polarity,Sentiment_Subjectivity\nGame 0,fun,Positive,0.4,0.5\nGame 0,meh,Neutral,0.2,0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := app.BuildConfig{
		PlayStoreCSV: writePlayStore(t, dir),
		ReviewsCSV:   reviews,
		CleanedCSV:   filepath.Join(dir, "out", "clean.csv"),
		CombinedCSV:  filepath.Join(dir, "out", "combined.csv"),
		PerCategory:  3,
		Seed:         42,
		Mock:         true,
	}
	cachePath := filepath.Join(dir, "out", "cache.json")
	repo := &fakeRepo{}

	res, err := app.NewBuilder(cfg, appstore.NewMock(1), cache.NewFileStore(cachePath), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// deliverable 1: sentinel and duplicate dropped
	clean := readCSV(t, cfg.CleanedCSV)
	if strings.Join(clean[0], ",") != strings.Join(domain.Columns, ",") {
		t.Fatalf("cleaned header: %v", clean[0])
	}
	if len(clean)-1 != 6 {
		t.Fatalf("cleaned rows = %d", len(clean)-1)
	}
	for _, r := range clean[1:] {
		if r[0] == "Shifted" {
			t.Fatalf("sentinel row leaked into cleaned output")
		}
	}
	for _, a := range res.Cleaned {
		if a.Name == "Game 0" && math.Abs(*a.AvgSentimentPolarity-0.3) > 1e-12 {
			t.Fatalf("Game 0 sentiment = %v", *a.AvgSentimentPolarity)
		}
		if a.Name == "Photo" && *a.AvgSentimentPolarity != 0 {
			t.Fatalf("Photo sentiment = %v", *a.AvgSentimentPolarity)
		}
	}

	// balanced sample: min(3, available)
	if res.ByCategory["GAME"] != 3 || res.ByCategory["PHOTOGRAPHY"] != 1 {
		t.Fatalf("per category: %v", res.ByCategory)
	}

	// deliverable 2: sample + one catalog record per sampled name
	combined := readCSV(t, cfg.CombinedCSV)
	if len(combined)-1 != 8 {
		t.Fatalf("combined rows = %d", len(combined)-1)
	}
	installsCol := 4
	for _, r := range combined[1:] {
		if r[installsCol] == "" {
			continue
		}
		if _, err := strconv.ParseInt(r[installsCol], 10, 64); err != nil {
			t.Fatalf("installs %q is not an integer", r[installsCol])
		}
	}
	if res.Fetch.NewFetches != 4 {
		t.Fatalf("fetch stats: %+v", res.Fetch)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache not persisted: %v", err)
	}

	// sink received the combined rows
	if repo.runID != res.RunID || len(repo.apps) != 8 || len(repo.runs) != 1 || !repo.runs[0].Mock {
		t.Fatalf("sink: run=%q apps=%d runs=%+v", repo.runID, len(repo.apps), repo.runs)
	}

	// second run is served entirely from the cache
	res2, err := app.NewBuilder(cfg, appstore.NewMock(2), cache.NewFileStore(cachePath), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res2.Fetch.NewFetches != 0 || res2.Fetch.CacheHits != 4 {
		t.Fatalf("second run stats: %+v", res2.Fetch)
	}
}

func TestBuilder_Run_MissingPrimaryIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := app.BuildConfig{
		PlayStoreCSV: filepath.Join(dir, "missing.csv"),
		CleanedCSV:   filepath.Join(dir, "c.csv"),
		CombinedCSV:  filepath.Join(dir, "d.csv"),
	}
	_, err := app.NewBuilder(cfg, newFakeCatalog(), &memStore{}, nil).Run(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := os.Stat(cfg.CleanedCSV); err == nil {
		t.Fatalf("no output may be written")
	}
}

func TestBuilder_Run_MissingReviewsIsNeutral(t *testing.T) {
	dir := t.TempDir()
	cfg := app.BuildConfig{
		PlayStoreCSV: writePlayStore(t, dir),
		ReviewsCSV:   filepath.Join(dir, "absent.csv"),
		CleanedCSV:   filepath.Join(dir, "c.csv"),
		CombinedCSV:  filepath.Join(dir, "d.csv"),
		Seed:         42,
	}
	cat := newFakeCatalog()
	cat.fail["Photo"] = true
	res, err := app.NewBuilder(cfg, cat, &memStore{}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, a := range res.Cleaned {
		if a.AvgSentimentPolarity == nil || *a.AvgSentimentPolarity != 0 {
			t.Fatalf("%s sentiment = %v", a.Name, a.AvgSentimentPolarity)
		}
	}
	if res.Fetch.Failed != 1 || len(res.Fetched) != 5 {
		t.Fatalf("fetch: %+v fetched=%d", res.Fetch, len(res.Fetched))
	}
}

func TestBuilder_Run_ReportsStoredCategories(t *testing.T) {
	dir := t.TempDir()
	cfg := app.BuildConfig{
		PlayStoreCSV: writePlayStore(t, dir),
		ReviewsCSV:   filepath.Join(dir, "absent.csv"),
		CleanedCSV:   filepath.Join(dir, "c.csv"),
		CombinedCSV:  filepath.Join(dir, "d.csv"),
		PerCategory:  2,
		Seed:         42,
	}
	repo := &countingRepo{}
	res, err := app.NewBuilder(cfg, newFakeCatalog(), &memStore{}, repo).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if repo.countedRun != res.RunID {
		t.Fatalf("counted run %q, want %q", repo.countedRun, res.RunID)
	}
	got := map[string]int{}
	for _, c := range res.Stored {
		got[c.Source+"/"+c.Category] = c.Count
	}
	// fake catalog files every app under GAME
	want := map[string]int{
		domain.SourcePlayStore + "/GAME":        2,
		domain.SourcePlayStore + "/PHOTOGRAPHY": 1,
		"App Store/GAME":                        3,
	}
	if len(got) != len(want) {
		t.Fatalf("stored counts: %v", got)
	}
	for k, n := range want {
		if got[k] != n {
			t.Fatalf("%s = %d, want %d (all: %v)", k, got[k], n, got)
		}
	}
}
