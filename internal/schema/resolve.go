// internal/schema/resolve.go
package schema

import "gwasdb/internal/table"

// Result is the outcome of Resolve: either *Resolved or *Rejected.
type Result interface {
	isResult()
}

// Resolved carries the canonical table and what was lost on the way.
type Resolved struct {
	Table *Canonical
	// Dropped counts rows removed because a numeric cell was missing.
	Dropped int
	// Defaulted lists fields filled from their default instead of a column.
	Defaulted []string
}

// Rejected means no output must be produced for this schema.
type Rejected struct {
	*Rejection
}

func (*Resolved) isResult() {}
func (*Rejected) isResult() {}

// Resolve maps src onto s. Rows with any missing numeric cell are dropped.
func Resolve(src *table.Table, s Schema) Result {
	b, rej := Bind(src, s)
	if rej != nil {
		return &Rejected{Rejection: rej}
	}

	// Defaults are coerced once; a bad default leaves no row standing,
	// which is what a missing cell in every row would do.
	defaults := make([]Value, len(s.Fields))
	defaultOK := make([]bool, len(s.Fields))
	for i, f := range s.Fields {
		if b.Columns[i] < 0 {
			defaults[i], defaultOK[i] = coerce(f.Kind, f.Default)
		}
	}

	out := &Canonical{Schema: s, Rows: make([]Row, 0, len(src.Rows))}
	dropped := 0
	for _, raw := range src.Rows {
		row := make(Row, len(s.Fields))
		keep := true
		for i, f := range s.Fields {
			col := b.Columns[i]
			if col < 0 {
				row[i], keep = defaults[i], defaultOK[i]
			} else {
				row[i], keep = coerce(f.Kind, raw[col])
			}
			if !keep {
				break
			}
		}
		if !keep {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return &Resolved{Table: out, Dropped: dropped, Defaulted: b.Defaulted()}
}
