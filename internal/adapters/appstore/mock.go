package appstore

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"appcatalog/internal/domain"
)

var mockCategories = []string{
	"ART_AND_DESIGN", "AUTO_AND_VEHICLES", "BEAUTY", "BOOKS_AND_REFERENCE", "BUSINESS",
	"COMICS", "COMMUNICATION", "DATING", "EDUCATION", "ENTERTAINMENT", "EVENTS",
	"FINANCE", "FAMILY", "FOOD_AND_DRINK", "GAME", "HEALTH_AND_FITNESS", "LIFESTYLE",
	"MAPS_AND_NAVIGATION", "MEDICAL", "NEWS_AND_MAGAZINES", "PHOTOGRAPHY", "SHOPPING",
	"SOCIAL", "SPORTS", "WEATHER",
}

var mockContentRatings = []string{"Everyone", "9+", "12+"}

const MockSource = "App Store (Mock)"

// Mock answers every search with one synthetic best match. The keys mimic
// the raw upstream payload, so results still need standardising.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewMock seeds the generator; seed 0 picks a time based seed.
func NewMock(seed int64) *Mock {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mock{rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (m *Mock) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.SearchResult{Results: []domain.Record{m.record(query)}}, nil
}

func (m *Mock) record(name string) domain.Record {
	typ, price := "Free", 0.0
	if m.rng.Float64() < 0.15 {
		typ, price = "Paid", round(m.uniform(0.99, 9.99), 2)
	}
	return domain.Record{
		"Name":                   name,
		"Category":               mockCategories[m.rng.Intn(len(mockCategories))],
		"Rating":                 round(m.uniform(4.0, 5.0), 1),
		"Reviews":                int64(5000 + m.rng.Intn(500000-5000)),
		"Installs":               int64(100 + m.rng.Intn(50000000-100)),
		"Type":                   typ,
		"Price":                  price,
		"Content Rating":         mockContentRatings[m.rng.Intn(len(mockContentRatings))],
		"Size_Bytes":             int64(15<<20 + m.rng.Intn(150<<20-15<<20)),
		"Required Android Ver":   "iOS 14.0+",
		"Last Updated":           m.now().Format("January 02, 2006"),
		"Avg_Sentiment_Polarity": round(m.uniform(-0.5, 0.9), 2),
		"Source":                 MockSource,
	}
}

func (m *Mock) uniform(lo, hi float64) float64 { return lo + m.rng.Float64()*(hi-lo) }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
