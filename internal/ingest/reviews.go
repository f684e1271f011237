package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"appcatalog/internal/dataset"
	"appcatalog/internal/domain"
)

// LoadReviews reads the review dataset. Empty or NaN polarities are kept as
// nil so they do not count towards the mean.
func LoadReviews(path string) ([]domain.Review, error) {
	t, err := dataset.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load reviews %s: %w", path, err)
	}
	idx, err := t.Index("App", "Sentiment_Polarity")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(t.Records))
	for _, rec := range t.Records {
		out = append(out, domain.Review{
			App:      rec[idx["App"]],
			Polarity: parseOptionalFloat(strings.TrimSpace(rec[idx["Sentiment_Polarity"]])),
		})
	}
	return out, nil
}

// MeanPolarity averages the valid polarities per app. Apps without a single
// valid polarity are absent from the result.
func MeanPolarity(reviews []domain.Review) map[string]float64 {
	type acc struct {
		sum float64
		n   int
	}
	by := make(map[string]*acc)
	for _, r := range reviews {
		if r.Polarity == nil || math.IsNaN(*r.Polarity) {
			continue
		}
		a := by[r.App]
		if a == nil {
			a = &acc{}
			by[r.App] = a
		}
		a.sum += *r.Polarity
		a.n++
	}
	out := make(map[string]float64, len(by))
	for app, a := range by {
		out[app] = a.sum / float64(a.n)
	}
	return out
}

// LoadSentiment returns the mean polarity per app. A missing reviews file is
// not an error: it is logged and an empty map is returned, which makes every
// app neutral.
func LoadSentiment(path string) (map[string]float64, error) {
	reviews, err := LoadReviews(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("reviews file not found; sentiment defaults to 0")
			return map[string]float64{}, nil
		}
		return nil, err
	}
	return MeanPolarity(reviews), nil
}

// MergeSentiment sets AvgSentimentPolarity on every app, 0 when the app has
// no entry in means.
func MergeSentiment(apps []domain.App, means map[string]float64) []domain.App {
	out := make([]domain.App, len(apps))
	for i, a := range apps {
		v := means[a.Name]
		a.AvgSentimentPolarity = &v
		out[i] = a
	}
	return out
}
