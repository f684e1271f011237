// Package dataset reads and writes the CSV tables the pipeline works on.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrMissingColumn = errors.New("dataset: missing column")

// Table is a header plus raw string records. Short records are padded to the
// header width on read.
type Table struct {
	Header  []string
	Records [][]string
	index   map[string]int
}

// ReadFile loads a CSV file. A leading UTF-8 BOM is ignored.
func ReadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})))
}

func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset: empty input")
		}
		return nil, err
	}
	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < len(header) {
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		t.Records = append(t.Records, rec[:len(header)])
	}
	return t, nil
}

// Index returns the position of each named column, or ErrMissingColumn.
func (t *Table) Index(cols ...string) (map[string]int, error) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			h = strings.TrimSpace(h)
			if _, dup := t.index[h]; !dup {
				t.index[h] = i
			}
		}
	}
	out := make(map[string]int, len(cols))
	for _, c := range cols {
		i, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		out[c] = i
	}
	return out, nil
}

// WriteFile writes header and rows, creating parent directories.
func WriteFile(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, header, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
