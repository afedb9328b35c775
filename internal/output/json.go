// internal/output/json.go
package output

import (
	"io"

	"gwasdb/internal/jsonutil"
	"gwasdb/internal/pipeline"
	"gwasdb/pkg/api"
)

// ToAPIReport converts a run report to the stable wire schema (v1).
func ToAPIReport(r pipeline.Report) api.ReportV1 {
	v := api.ReportV1{RunID: r.RunID, Files: make([]api.FileReportV1, 0, len(r.Files))}
	v.Outputs, v.Rejections = r.Totals()
	for _, f := range r.Files {
		fv := api.FileReportV1{Source: f.Source, Archived: f.Archived}
		for _, o := range f.Outputs {
			fv.Outputs = append(fv.Outputs, api.OutputV1{
				Schema:    o.Schema,
				Path:      o.Path,
				Rows:      o.Rows,
				Dropped:   o.Dropped,
				Defaulted: append([]string(nil), o.Defaulted...),
				Loaded:    o.Loaded,
			})
		}
		for _, rj := range f.Rejections {
			fv.Rejections = append(fv.Rejections, api.RejectionV1{
				Schema:     rj.Schema,
				Field:      rj.Field,
				Reason:     string(rj.Reason),
				Candidates: append([]string(nil), rj.Candidates...),
			})
		}
		v.Files = append(v.Files, fv)
	}
	return v
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r pipeline.Report) error {
	return jsonutil.EncodePretty(w, ToAPIReport(r))
}
