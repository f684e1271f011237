package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"appcatalog/internal/cache"
	"appcatalog/internal/domain"
)

// RecordStore keeps the record cache in one redis hash: field = app name,
// value = JSON record.
type RecordStore struct {
	c   *redis.Client
	key string
}

func New(addr, pass string, db int, key string) *RecordStore {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), key)
}

func NewWithClient(c *redis.Client, key string) *RecordStore {
	return &RecordStore{c: c, key: key}
}

func (r *RecordStore) Name() string { return "redis" }

func (r *RecordStore) Load(ctx context.Context) (map[string]domain.Record, error) {
	raw, err := r.c.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Record, len(raw))
	for name, v := range raw {
		var rec domain.Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("%w: %s[%s]: %v", cache.ErrCorrupt, r.key, name, err)
		}
		out[name] = rec
	}
	return out, nil
}

// Save replaces the hash atomically so the stored cache always equals the
// session that wrote it.
func (r *RecordStore) Save(ctx context.Context, entries map[string]domain.Record) error {
	fields := make([]any, 0, len(entries)*2)
	for name, rec := range entries {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal %q: %w", name, err)
		}
		fields = append(fields, name, b)
	}
	_, err := r.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key)
		if len(fields) > 0 {
			p.HSet(ctx, r.key, fields...)
		}
		return nil
	})
	return err
}

func (r *RecordStore) Close() error { return r.c.Close() }
