package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"appcatalog/internal/domain"
)

// ErrCorrupt marks stored cache content that cannot be decoded.
var ErrCorrupt = errors.New("cache: corrupt content")

// FileStore keeps the whole cache as one JSON object on disk.
type FileStore struct{ path string }

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Load(ctx context.Context) (map[string]domain.Record, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string]domain.Record{}
	if len(bytes.TrimSpace(b)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return out, nil
}

// Save rewrites the file through a temp file in the same directory.
func (f *FileStore) Save(ctx context.Context, entries map[string]domain.Record) error {
	b, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
