// Package ingest loads and cleans the local Play Store tables.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"appcatalog/internal/dataset"
	"appcatalog/internal/domain"
)

// InstallsSentinel is the known anomalous Installs value; rows carrying it
// are shifted by one column and are dropped.
const InstallsSentinel = "Free"

var ErrMalformed = errors.New("ingest: malformed value")

var playStoreColumns = []string{
	"App", "Category", "Rating", "Reviews", "Size", "Installs",
	"Type", "Price", "Content Rating", "Last Updated", "Android Ver",
}

type LoadStats struct {
	Read              int
	DroppedSentinel   int
	DroppedDuplicates int
	Kept              int
}

// LoadPlayStore reads and cleans the primary dataset. A missing file is
// returned as an error wrapping os.ErrNotExist.
func LoadPlayStore(path string) ([]domain.App, LoadStats, error) {
	t, err := dataset.ReadFile(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("load play store %s: %w", path, err)
	}
	return CleanPlayStore(t)
}

func CleanPlayStore(t *dataset.Table) ([]domain.App, LoadStats, error) {
	idx, err := t.Index(playStoreColumns...)
	if err != nil {
		return nil, LoadStats{}, err
	}

	st := LoadStats{Read: len(t.Records)}
	seen := make(map[string]struct{}, len(t.Records))
	apps := make([]domain.App, 0, len(t.Records))

	for i, rec := range t.Records {
		line := i + 2 // header is line 1
		if rec[idx["Installs"]] == InstallsSentinel {
			st.DroppedSentinel++
			continue
		}
		key := strings.Join(rec, "\x1f")
		if _, dup := seen[key]; dup {
			st.DroppedDuplicates++
			continue
		}
		seen[key] = struct{}{}

		a, err := parseApp(rec, idx)
		if err != nil {
			return nil, st, fmt.Errorf("line %d: %w", line, err)
		}
		apps = append(apps, a)
	}
	st.Kept = len(apps)
	return apps, st, nil
}

func parseApp(rec []string, idx map[string]int) (domain.App, error) {
	col := func(name string) string { return strings.TrimSpace(rec[idx[name]]) }

	installs, err := parseInstalls(col("Installs"))
	if err != nil {
		return domain.App{}, err
	}
	price, err := parsePrice(col("Price"))
	if err != nil {
		return domain.App{}, err
	}
	reviews, err := parseCount("Reviews", col("Reviews"))
	if err != nil {
		return domain.App{}, err
	}

	return domain.App{
		Name:                   rec[idx["App"]],
		Category:               col("Category"),
		Rating:                 parseOptionalFloat(col("Rating")),
		ReviewCount:            reviews,
		Installs:               installs,
		Type:                   optionalStr(col("Type")),
		Price:                  price,
		ContentRating:          optionalStr(col("Content Rating")),
		SizeBytes:              SizeToBytes(col("Size")),
		RequiredAndroidVersion: optionalStr(col("Android Ver")),
		LastUpdatedDate:        optionalStr(col("Last Updated")),
		Source:                 domain.SourcePlayStore,
	}, nil
}

// parseInstalls turns "10,000+" into 10000.
func parseInstalls(s string) (*int64, error) {
	s = strings.NewReplacer("+", "", ",", "").Replace(s)
	return parseCount("Installs", s)
}

func parseCount(field, s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrMalformed, field, s)
	}
	return &n, nil
}

// parsePrice turns "$4.99" into 4.99.
func parsePrice(s string) (*float64, error) {
	s = strings.ReplaceAll(s, "$", "")
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) {
		return nil, fmt.Errorf("%w: Price=%q", ErrMalformed, s)
	}
	return &f, nil
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func optionalStr(s string) *string {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	return &s
}
