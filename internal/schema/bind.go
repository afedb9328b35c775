// internal/schema/bind.go
package schema

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"gwasdb/internal/table"
)

var (
	ErrMissing   = errors.New("no matching column")
	ErrAmbiguous = errors.New("more than one matching column")
)

// Reason classifies a rejection.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonAmbiguous Reason = "ambiguous"
)

// Rejection explains why a table could not be bound to a schema.
type Rejection struct {
	Source     string
	Schema     string
	Field      string
	Reason     Reason
	Candidates []string
}

func (r *Rejection) Error() string {
	if r.Reason == ReasonAmbiguous {
		return fmt.Sprintf("%s: %s field %q: %s (%s)", r.Source, r.Schema, r.Field, ErrAmbiguous, strings.Join(r.Candidates, ", "))
	}
	return fmt.Sprintf("%s: %s field %q: %s", r.Source, r.Schema, r.Field, ErrMissing)
}

func (r *Rejection) Unwrap() error {
	if r.Reason == ReasonAmbiguous {
		return ErrAmbiguous
	}
	return ErrMissing
}

// Binding maps each schema field to a source column index; -1 means the field
// is filled from its default.
type Binding struct {
	Schema  Schema
	Columns []int
}

// Defaulted lists the fields filled from their default.
func (b Binding) Defaulted() []string {
	var out []string
	for i, c := range b.Columns {
		if c < 0 {
			out = append(out, b.Schema.Fields[i].Name)
		}
	}
	return out
}

// foldHeader normalises a header for comparison: Unicode case folding and
// surrounding whitespace removed.
func foldHeader(h string) string {
	return cases.Fold().String(strings.TrimSpace(h))
}

func (f Field) matches(folded string) bool {
	for _, a := range f.Aliases {
		switch f.Match {
		case MatchSubstring:
			if strings.Contains(folded, a) {
				return true
			}
		default:
			if folded == a {
				return true
			}
		}
	}
	return false
}

// Candidates returns the source columns whose header matches field f.
func Candidates(columns []string, f Field) []int {
	var idx []int
	for i, c := range columns {
		if f.matches(foldHeader(c)) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Bind resolves every field of s to one source column. A required field needs
// exactly one match. An optional field takes its first match, or -1 when it has
// none and a default.
func Bind(src *table.Table, s Schema) (Binding, *Rejection) {
	b := Binding{Schema: s, Columns: make([]int, len(s.Fields))}
	for i, f := range s.Fields {
		idx := Candidates(src.Columns, f)
		switch {
		case len(idx) == 1, len(idx) > 1 && !f.Required:
			b.Columns[i] = idx[0]
		case len(idx) == 0 && !f.Required && f.Default != "":
			b.Columns[i] = -1
		case len(idx) == 0:
			return b, &Rejection{Source: src.Name, Schema: s.Name, Field: f.Name, Reason: ReasonMissing}
		default:
			names := make([]string, len(idx))
			for j, k := range idx {
				names[j] = src.Columns[k]
			}
			return b, &Rejection{Source: src.Name, Schema: s.Name, Field: f.Name, Reason: ReasonAmbiguous, Candidates: names}
		}
	}
	return b, nil
}
