// Package functional loads curated functional annotations of mutations and
// the composite-name split table used to harmonize them with VCF names.
package functional

import (
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// Columns are the functional annotation table columns.
var Columns = []string{
	"mutation",
	"comb_mutation",
	"function_category",
	"source",
	"citation",
	"function_description",
	"heterozygosity",
}

// Entry is one functional annotation row.
type Entry struct {
	Mutation            string
	CombMutation        string // other members of the mutation group, quoted and comma-separated
	FunctionCategory    string
	Source              string
	Citation            string
	FunctionDescription string
	Heterozygosity      string
}

// Annotations is the loaded functional table.
type Annotations struct {
	Entries []Entry

	byMutation map[string][]int
	names      []string
}

// Load reads a functional annotation TSV. Leading whitespace is stripped
// from every cell.
func Load(path string) (*Annotations, error) {
	t, err := tsv.Load(path)
	if err != nil {
		return nil, err
	}
	return FromTable(t)
}

// FromTable builds the annotations from a parsed table.
func FromTable(t *tsv.Table) (*Annotations, error) {
	if err := t.Require(Columns...); err != nil {
		return nil, err
	}

	a := &Annotations{byMutation: make(map[string][]int)}
	for _, row := range t.Rows {
		cell := func(name string) string {
			return strings.TrimLeft(t.Value(row, name), " \t")
		}
		e := Entry{
			Mutation:            cell("mutation"),
			CombMutation:        cell("comb_mutation"),
			FunctionCategory:    cell("function_category"),
			Source:              cell("source"),
			Citation:            cell("citation"),
			FunctionDescription: cell("function_description"),
			Heterozygosity:      cell("heterozygosity"),
		}
		a.add(e)
	}
	return a, nil
}

// New builds annotations from entries, in order.
func New(entries []Entry) *Annotations {
	a := &Annotations{byMutation: make(map[string][]int)}
	for _, e := range entries {
		a.add(e)
	}
	return a
}

func (a *Annotations) add(e Entry) {
	if _, seen := a.byMutation[e.Mutation]; !seen {
		a.names = append(a.names, e.Mutation)
	}
	a.byMutation[e.Mutation] = append(a.byMutation[e.Mutation], len(a.Entries))
	a.Entries = append(a.Entries, e)
}

// Lookup returns the entries for a mutation name in table order.
func (a *Annotations) Lookup(mutation string) []Entry {
	idx := a.byMutation[mutation]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Entry, len(idx))
	for i, j := range idx {
		out[i] = a.Entries[j]
	}
	return out
}

// Has reports whether the table annotates mutation.
func (a *Annotations) Has(mutation string) bool {
	return len(a.byMutation[mutation]) > 0
}

// Names returns the distinct mutation names in first-seen order.
func (a *Annotations) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}
