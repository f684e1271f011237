// Package cache holds the name -> record cache for one pipeline run.
//
// A Session is loaded once from its store, mutated in memory while the
// fetcher runs, and written back once by Close.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"appcatalog/internal/adapters/observability"
	"appcatalog/internal/domain"
)

type Session struct {
	store   domain.RecordStore
	entries map[string]domain.Record
	added   int
	closed  bool
}

// Open loads the store. Corrupt content is logged and replaced by an empty
// cache; any other load error is returned.
func Open(ctx context.Context, store domain.RecordStore) (*Session, error) {
	entries, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
		observability.ObserveCache(store.Name(), "corrupt")
		log.Warn().Err(err).Str("store", store.Name()).Msg("cache corrupted; starting with an empty cache")
		entries = map[string]domain.Record{}
	case err != nil:
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if entries == nil {
		entries = map[string]domain.Record{}
	}
	observability.ObserveCache(store.Name(), "load")
	log.Info().Str("store", store.Name()).Int("entries", len(entries)).Msg("cache loaded")
	return &Session{store: store, entries: entries}, nil
}

func (s *Session) Get(name string) (domain.Record, bool) {
	r, ok := s.entries[name]
	if ok {
		observability.ObserveCache(s.store.Name(), "hit")
	} else {
		observability.ObserveCache(s.store.Name(), "miss")
	}
	return r, ok
}

func (s *Session) Put(name string, r domain.Record) {
	if _, exists := s.entries[name]; !exists {
		s.added++
	}
	s.entries[name] = r
	observability.ObserveCache(s.store.Name(), "set")
}

func (s *Session) Len() int   { return len(s.entries) }
func (s *Session) Added() int { return s.added }

// Close persists every entry. Calling it twice is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.store.Save(ctx, s.entries); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	observability.ObserveCache(s.store.Name(), "save")
	log.Info().
		Str("store", s.store.Name()).
		Int("entries", len(s.entries)).
		Int("new", s.added).
		Msg("cache saved")
	return nil
}
