package ingest

import (
	"strconv"
	"strings"
)

const (
	kib = 1024
	mib = 1024 * 1024
)

// SizeToBytes converts a human-readable size such as "19M" or "201k" into
// bytes. "M" takes precedence over "K". Anything else, including
// "Varies with device", yields nil.
func SizeToBytes(s string) *float64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	var (
		unit float64
		num  string
	)
	switch {
	case strings.Contains(s, "M"):
		unit, num = mib, strings.ReplaceAll(s, "M", "")
	case strings.Contains(s, "K"):
		unit, num = kib, strings.ReplaceAll(s, "K", "")
	default:
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return nil
	}
	v := f * unit
	return &v
}
