// internal/pipeline/report.go
package pipeline

import "gwasdb/internal/schema"

// Output describes one canonical table written to disk.
type Output struct {
	Schema    string
	Path      string
	Rows      int
	Dropped   int
	Defaulted []string
	Loaded    int // rows inserted into the sink; 0 without one
}

// FileReport is the outcome for one source archive.
type FileReport struct {
	Source     string
	Archived   string
	Outputs    []Output
	Rejections []*schema.Rejection
}

// Report summarizes a run.
type Report struct {
	RunID string
	Files []FileReport
}

// Totals counts outputs written and schemas rejected across the run.
func (r Report) Totals() (outputs, rejections int) {
	for _, f := range r.Files {
		outputs += len(f.Outputs)
		rejections += len(f.Rejections)
	}
	return outputs, rejections
}
