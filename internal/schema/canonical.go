// internal/schema/canonical.go
package schema

import (
	"bufio"
	"io"
	"path/filepath"
)

// Row is one canonical tuple, in schema field order.
type Row []Value

// Canonical is a table that conforms to a schema.
type Canonical struct {
	Schema Schema
	Rows   []Row
}

// Len is the number of rows.
func (c *Canonical) Len() int { return len(c.Rows) }

// WriteTSV writes a header of canonical names followed by one line per row.
func (c *Canonical) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, n := range c.Schema.Names() {
		if i > 0 {
			_ = bw.WriteByte('\t')
		}
		_, _ = bw.WriteString(n)
	}
	_ = bw.WriteByte('\n')
	for _, row := range c.Rows {
		for i, v := range row {
			if i > 0 {
				_ = bw.WriteByte('\t')
			}
			_, _ = bw.WriteString(v.String())
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// OutputName is the file name a canonical table derived from sourcePath is
// written to: the source base name plus the schema suffix.
func OutputName(sourcePath string, s Schema) string {
	return filepath.Base(sourcePath) + s.Suffix
}
