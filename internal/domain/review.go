package domain

// Review is one row of the user review dataset. Polarity is nil when the
// source cell is empty or NaN.
type Review struct {
	App      string
	Polarity *float64
}

// Record is a standardised catalog result as stored in the cache.
type Record map[string]any

// SearchResult is the decoded body of a catalog search.
type SearchResult struct {
	Results []Record `json:"results"`
}

// BestMatch returns the first result, assumed most relevant.
func (r SearchResult) BestMatch() (Record, bool) {
	if len(r.Results) == 0 {
		return nil, false
	}
	return r.Results[0], true
}
