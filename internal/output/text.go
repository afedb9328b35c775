// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gwasdb/internal/pipeline"
)

// WriteText prints one TSV line per output or rejection, then a totals line.
func WriteText(w io.Writer, r pipeline.Report, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, f := range r.Files {
		src := filepath.Base(f.Source)
		for _, o := range f.Outputs {
			detail := "-"
			if len(o.Defaulted) > 0 {
				detail = "defaulted=" + strings.Join(o.Defaulted, ",")
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\twritten\t%s\t%d\t%d\t%s\n",
				src, o.Schema, o.Path, o.Rows, o.Dropped, detail); err != nil {
				return err
			}
		}
		for _, rj := range f.Rejections {
			detail := string(rj.Reason)
			if len(rj.Candidates) > 0 {
				detail += ":" + strings.Join(rj.Candidates, ",")
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\trejected\t%s\t0\t0\t%s\n",
				src, rj.Schema, rj.Field, detail); err != nil {
				return err
			}
		}
	}
	outs, rejs := r.Totals()
	_, err := fmt.Fprintf(w, "# files=%d outputs=%d rejections=%d\n", len(r.Files), outs, rejs)
	return err
}
