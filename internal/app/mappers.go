package app

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"appcatalog/internal/domain"
)

/********** key standardisation **********/

// renamedKeys maps raw catalog keys to the unified schema. These are the
// only keys rewritten before a record is cached.
var renamedKeys = map[string]string{
	"Reviews":              "Review_Count",
	"Required Android Ver": "Required_Android_Version",
	"Last Updated":         "Last_Updated_Date",
	"Content Rating":       "Content_Rating",
}

// standardize returns a copy of r with renamedKeys applied. Keys that are
// absent are left alone; a raw key overwrites an already standardised one.
func standardize(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for from, to := range renamedKeys {
		if v, ok := out[from]; ok {
			out[to] = v
			delete(out, from)
		}
	}
	return out
}

/********** alias registry (single source of truth) **********/

// Real search payloads use their own field names; records cached by older
// runs may still carry the raw keys. First non-empty alias wins.
var recordAliases = map[string][]string{
	"name":     {"Name", "title", "trackName", "name"},
	"category": {"Category", "genre", "primaryGenreName", "category"},
	"rating":   {"Rating", "score", "averageUserRating", "rating"},
	"reviews":  {"Review_Count", "Reviews", "reviews", "userRatingCount", "ratings"},
	"installs": {"Installs", "installs"},
	"type":     {"Type", "type"},
	"price":    {"Price", "price"},
	"content":  {"Content_Rating", "Content Rating", "contentRating", "trackContentRating"},
	"size":     {"Size_Bytes", "size", "fileSizeBytes"},
	"minver":   {"Required_Android_Version", "Required Android Ver", "requiredOsVersion", "minimumOsVersion"},
	"updated":  {"Last_Updated_Date", "Last Updated", "updated", "currentVersionReleaseDate"},
	"polarity": {"Avg_Sentiment_Polarity"},
	"source":   {"Source", "source"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstString(m map[string]any, key string) *string {
	for _, p := range recordAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return &s
			}
		case float64:
			s := strconv.FormatFloat(v, 'f', -1, 64)
			return &s
		}
	}
	return nil
}

// firstFloat: number from the alias set (float64/int/int64/json string).
func firstFloat(m map[string]any, key string) *float64 {
	for _, p := range recordAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			if math.IsNaN(v) {
				continue
			}
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$"))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
				return &f
			}
		}
	}
	return nil
}

// firstInt64 coerces to a nullable integer. Fractions are truncated;
// negative counts and values beyond int64 are treated as unknown.
func firstInt64(m map[string]any, key string) *int64 {
	for _, p := range recordAliases[key] {
		var n int64
		switch v := lookupAny(m, p).(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < 0 || v >= math.MaxInt64 {
				return nil
			}
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case string:
			s := strings.NewReplacer("+", "", ",", "").Replace(strings.TrimSpace(v))
			if s == "" {
				continue
			}
			x, err := strconv.ParseInt(s, 10, 64)
			if errors.Is(err, strconv.ErrRange) {
				return nil
			}
			if err != nil {
				continue
			}
			n = x
		default:
			continue
		}
		if n < 0 {
			return nil
		}
		return &n
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

/********** record -> unified row **********/

// mapRecord reindexes a standardised record onto the unified columns.
// Fields the record does not carry stay null.
func mapRecord(r domain.Record) domain.App {
	m := map[string]any(r)
	return domain.App{
		Name:                   deref(firstString(m, "name")),
		Category:               deref(firstString(m, "category")),
		Rating:                 firstFloat(m, "rating"),
		ReviewCount:            firstInt64(m, "reviews"),
		Installs:               firstInt64(m, "installs"),
		Type:                   firstString(m, "type"),
		Price:                  firstFloat(m, "price"),
		ContentRating:          firstString(m, "content"),
		SizeBytes:              firstFloat(m, "size"),
		RequiredAndroidVersion: firstString(m, "minver"),
		LastUpdatedDate:        firstString(m, "updated"),
		AvgSentimentPolarity:   firstFloat(m, "polarity"),
		Source:                 deref(firstString(m, "source")),
	}
}
