// internal/schema/field.go
package schema

import "strconv"

// Kind is the value type a canonical field is coerced to.
type Kind uint8

const (
	KindString Kind = iota
	KindFloat
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Numeric reports whether cells of this kind are parsed as numbers.
func (k Kind) Numeric() bool { return k == KindFloat || k == KindInt }

// Match selects how a folded source header is compared with an alias.
type Match uint8

const (
	// MatchExact: the folded header equals one alias.
	MatchExact Match = iota
	// MatchSubstring: the folded header contains one alias.
	MatchSubstring
)

func (m Match) String() string {
	if m == MatchSubstring {
		return "substring"
	}
	return "exact"
}

// Field is one column of a canonical schema.
type Field struct {
	Name     string
	Kind     Kind
	Match    Match
	Aliases  []string
	Required bool
	// Default fills every row when an optional field has no source column.
	// Empty means no default.
	Default string
}

// Schema is a fixed, ordered set of canonical fields plus the suffix of the
// file it is written to.
type Schema struct {
	Name   string
	Suffix string
	Fields []Field
}

// Names returns the canonical column names in declared order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Alias sets recognised in the wild. Entries are lowercase; headers are
// case-folded before comparison.
var (
	RSIDAliases       = []string{"hm_rsid", "rs_id", "rsid", "snp", "markername", "variant_id"}
	PAliases          = []string{"p", "p-value", "pval", "p.value", "p_value"}
	NAliases          = []string{"n", "nsamples", "totalsamplesize"}
	ChromosomeAliases = []string{"chromosome", "chrom", "chromosome_name", "chr"}
	PositionAliases   = []string{"position", "pos", "bp", "basepair", "base_pair_location", "base_pair_location_start"}
)

// DefaultSampleSize is used for n when a file has no sample-size column.
const DefaultSampleSize = 42212

const (
	PValueName   = "pvalue"
	LocationName = "location"
)

// PValueSchema is (rsid, p, n). A defaultN <= 0 leaves n without a default, so
// files lacking a sample-size column are rejected.
func PValueSchema(defaultN int) Schema {
	n := Field{Name: "n", Kind: KindInt, Match: MatchExact, Aliases: NAliases}
	if defaultN > 0 {
		n.Default = strconv.Itoa(defaultN)
	}
	return Schema{
		Name:   PValueName,
		Suffix: "_p.txt",
		Fields: []Field{
			{Name: "rsid", Kind: KindString, Match: MatchExact, Aliases: RSIDAliases, Required: true},
			{Name: "p", Kind: KindFloat, Match: MatchExact, Aliases: PAliases, Required: true},
			n,
		},
	}
}

// LocationSchema is (rsid, chromosome, position). Position headers are matched
// by substring to tolerate compound names such as base_pair_location_start.
func LocationSchema() Schema {
	return Schema{
		Name:   LocationName,
		Suffix: "_loc.txt",
		Fields: []Field{
			{Name: "rsid", Kind: KindString, Match: MatchExact, Aliases: RSIDAliases, Required: true},
			{Name: "chromosome", Kind: KindInt, Match: MatchExact, Aliases: ChromosomeAliases, Required: true},
			{Name: "position", Kind: KindInt, Match: MatchSubstring, Aliases: PositionAliases, Required: true},
		},
	}
}

// Defaults returns both schemas in processing order.
func Defaults(defaultN int) []Schema {
	return []Schema{PValueSchema(defaultN), LocationSchema()}
}
