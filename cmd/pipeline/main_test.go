package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appcatalog/internal/adapters/appstore"
	"appcatalog/internal/cache"
	"appcatalog/internal/shared"
)

func TestNewStore(t *testing.T) {
	cfg := shared.Config{CacheBackend: "file", CacheFile: filepath.Join(t.TempDir(), "c.json")}
	s, closeFn, err := newStore(cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &cache.FileStore{}, s)

	cfg.CacheBackend = "memcached"
	_, _, err = newStore(cfg)
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestNewCatalog(t *testing.T) {
	c, err := newCatalog(shared.Config{UseMock: true, MockSeed: 1})
	require.NoError(t, err)
	assert.IsType(t, &appstore.Mock{}, c)

	_, err = newCatalog(shared.Config{AppStoreBase: "not a url"})
	assert.Error(t, err)

	c, err = newCatalog(shared.Config{AppStoreBase: "http://localhost:1"})
	require.NoError(t, err)
	assert.IsType(t, &appstore.Client{}, c)
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	cfg := shared.Config{SamplePerCategory: 200, SampleSeed: 42, CacheBackend: "file"}
	root := newRootCmd(&cfg)
	root.SetArgs([]string{"--mock", "--cache-backend", "redis", "run", "--per-category", "5", "--seed", "7", "--input", "x.csv"})

	// stop before the pipeline body runs
	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	run.RunE = func(*cobra.Command, []string) error { return nil }

	require.NoError(t, root.Execute())
	assert.True(t, cfg.UseMock)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 5, cfg.SamplePerCategory)
	assert.Equal(t, int64(7), cfg.SampleSeed)
	assert.Equal(t, "x.csv", cfg.PlayStoreCSV)
}
