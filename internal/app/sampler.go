package app

import (
	"math/rand"
	"sort"

	"appcatalog/internal/domain"
)

// StratifiedSample draws min(perCategory, n) apps without replacement from
// every non-empty category. Categories come out in ascending order and each
// one is drawn with a fresh generator seeded with seed, so a category's
// sample does not depend on the others.
func StratifiedSample(apps []domain.App, perCategory int, seed int64) []domain.App {
	groups := make(map[string][]domain.App)
	for _, a := range apps {
		if a.Category == "" {
			continue
		}
		groups[a.Category] = append(groups[a.Category], a)
	}
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var out []domain.App
	for _, c := range cats {
		g := groups[c]
		n := min(perCategory, len(g))
		if n <= 0 {
			continue
		}
		rng := rand.New(rand.NewSource(seed))
		for _, i := range rng.Perm(len(g))[:n] {
			out = append(out, g[i])
		}
	}
	return out
}

// CountByCategory tallies apps per category; empty categories are skipped.
func CountByCategory(apps []domain.App) map[string]int {
	out := make(map[string]int)
	for _, a := range apps {
		if a.Category != "" {
			out[a.Category]++
		}
	}
	return out
}

// UniqueNames keeps the first occurrence of every name.
func UniqueNames(apps []domain.App) []string {
	seen := make(map[string]struct{}, len(apps))
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a.Name)
	}
	return out
}
