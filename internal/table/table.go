// Package table holds a tab-delimited source table with raw string cells.
//
// Cells are not typed at load time; coercion belongs to the schema resolver.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when the input holds no header line.
var ErrNoHeader = errors.New("table: no header line")

// maxLine bounds a single TSV line. Summary-statistics rows are short, but
// harmonised files can carry dozens of columns.
const maxLine = 16 << 20

// Table is an ordered set of named columns loaded from tab-delimited text.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Width is the number of columns.
func (t *Table) Width() int { return len(t.Columns) }

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the cells of column i, top to bottom.
func (t *Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// ReadTSV parses r as tab-delimited text. The first non-empty line is the
// header. Short rows are padded with empty (missing) cells; a row wider than
// the header is an error.
func ReadTSV(r io.Reader, name string) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)

	t := &Table{Name: name}
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if t.Columns == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			line = strings.TrimPrefix(line, "\ufeff")
			t.Columns = strings.Split(line, "\t")
			continue
		}
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		switch {
		case len(f) > len(t.Columns):
			return nil, fmt.Errorf("%s:%d expected %d fields, saw %d", name, ln, len(t.Columns), len(f))
		case len(f) < len(t.Columns):
			f = append(f, make([]string, len(t.Columns)-len(f))...)
		}
		t.Rows = append(t.Rows, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if t.Columns == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	return t, nil
}

// ReadFile loads a table from path, decompressing gzip transparently.
func ReadFile(path string) (*Table, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadTSV(rc, path)
}
