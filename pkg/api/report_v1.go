// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for a run summary.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	RunID      string         `json:"run_id"`
	Files      []FileReportV1 `json:"files"`
	Outputs    int            `json:"outputs"`
	Rejections int            `json:"rejections"`
}

// FileReportV1 is the outcome for one source archive.
type FileReportV1 struct {
	Source     string        `json:"source"`
	Archived   string        `json:"archived,omitempty"`
	Outputs    []OutputV1    `json:"outputs,omitempty"`
	Rejections []RejectionV1 `json:"rejections,omitempty"`
}

// OutputV1 describes one canonical table written to disk.
type OutputV1 struct {
	Schema    string   `json:"schema"` // "pvalue" | "location"
	Path      string   `json:"path"`
	Rows      int      `json:"rows"`
	Dropped   int      `json:"dropped"`
	Defaulted []string `json:"defaulted,omitempty"`
	Loaded    int      `json:"loaded,omitempty"`
}

// RejectionV1 explains a skipped schema.
type RejectionV1 struct {
	Schema     string   `json:"schema"`
	Field      string   `json:"field"`
	Reason     string   `json:"reason"` // "missing" | "ambiguous"
	Candidates []string `json:"candidates,omitempty"`
}
