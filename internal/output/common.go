package output

// TSVHeader is the header row of the text summary.
// Keep this as the single source of truth; all text writers should use it.
const TSVHeader = "source\tschema\tstatus\tpath_or_field\trows\tdropped\tdetail"
