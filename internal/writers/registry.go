// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"gwasdb/internal/output"
	"gwasdb/internal/pipeline"
)

// ReportWriterFunc serializes a run report.
type ReportWriterFunc func(w io.Writer, r pipeline.Report) error

// ReportWriters maps a format name to its writer.
var ReportWriters = map[string]ReportWriterFunc{}

// RegisterReport adds or replaces (last wins) the writer for format.
func RegisterReport(format string, fn ReportWriterFunc) { ReportWriters[format] = fn }

func init() {
	RegisterReport("text", func(w io.Writer, r pipeline.Report) error { return output.WriteText(w, r, true) })
	RegisterReport("json", output.WriteJSON)
}

// WriteReport dispatches to the writer registered for format.
func WriteReport(format string, w io.Writer, r pipeline.Report) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, r)
}

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(ReportWriters))
	for k := range ReportWriters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
