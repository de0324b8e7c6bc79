// Package clades loads WHO variant designations keyed by Pango lineage
// patterns and matches lineages against them.
package clades

import (
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// NotAvailable fills every designation field when no pattern matches.
const NotAvailable = "n/a"

// Columns are the clade table columns.
var Columns = []string{
	"pango_lineage",
	"variant",
	"variant_type",
	"voi_designation_date",
	"voc_designation_date",
	"vum_designation_date",
	"status",
}

// Designation is one row of the clade table.
type Designation struct {
	Pattern            string
	Variant            string
	VariantType        string
	VOIDesignationDate string
	VOCDesignationDate string
	VUMDesignationDate string
	Status             string

	lineages []string // expanded pattern
}

// Unknown is the designation used when a lineage matches no row.
var Unknown = Designation{
	Variant:            NotAvailable,
	VariantType:        NotAvailable,
	VOIDesignationDate: NotAvailable,
	VOCDesignationDate: NotAvailable,
	VUMDesignationDate: NotAvailable,
	Status:             NotAvailable,
}

// Attribute is a GVF key and its value.
type Attribute struct {
	Key   string
	Value string
}

// Attributes returns the designation as GVF attributes in output order.
func (d Designation) Attributes() []Attribute {
	return []Attribute{
		{"variant", d.Variant},
		{"variant_type", d.VariantType},
		{"voi_designation_date", d.VOIDesignationDate},
		{"voc_designation_date", d.VOCDesignationDate},
		{"vum_designation_date", d.VUMDesignationDate},
		{"status", d.Status},
	}
}

// Lineages returns the lineages named by the pattern.
func (d Designation) Lineages() []string {
	return d.lineages
}

// Matches reports whether lineage is one of the pattern's lineages or a
// descendant of one.
func (d Designation) Matches(lineage string) bool {
	for _, l := range d.lineages {
		if lineage == l || strings.HasPrefix(lineage, l+".") {
			return true
		}
	}
	return false
}

// Table is the loaded clade table in file order.
type Table struct {
	Designations []Designation
}

// Load reads a clade designation TSV.
func Load(path string) (*Table, error) {
	t, err := tsv.Load(path)
	if err != nil {
		return nil, err
	}
	return FromTable(t)
}

// FromTable builds the clade table from a parsed TSV.
func FromTable(t *tsv.Table) (*Table, error) {
	if err := t.Require(Columns...); err != nil {
		return nil, err
	}
	ct := &Table{}
	for _, row := range t.Rows {
		pattern := strings.TrimSpace(t.Value(row, "pango_lineage"))
		if pattern == "" {
			continue
		}
		ct.Designations = append(ct.Designations, Designation{
			Pattern:            pattern,
			Variant:            t.Value(row, "variant"),
			VariantType:        t.Value(row, "variant_type"),
			VOIDesignationDate: t.Value(row, "voi_designation_date"),
			VOCDesignationDate: t.Value(row, "voc_designation_date"),
			VUMDesignationDate: t.Value(row, "vum_designation_date"),
			Status:             t.Value(row, "status"),
			lineages:           ExpandPattern(pattern),
		})
	}
	return ct, nil
}

// Match returns the first designation whose pattern covers lineage. The
// boolean is false, and Unknown is returned, when none does.
func (t *Table) Match(lineage string) (Designation, bool) {
	if t == nil || lineage == "" || lineage == NotAvailable {
		return Unknown, false
	}
	for _, d := range t.Designations {
		if d.Matches(lineage) {
			return d, true
		}
	}
	return Unknown, false
}

// ExpandPattern lists the lineages named by a pango_lineage pattern:
// a single lineage, a comma-separated list whose members may end in "*" or
// ".*", or "PARENT.[a|b]" which names PARENT.a and PARENT.b.
func ExpandPattern(pattern string) []string {
	var out []string
	for _, part := range strings.Split(pattern, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if open := strings.IndexByte(part, '['); open >= 0 {
			parent := part[:open]
			rest := part[open+1:]
			if end := strings.IndexByte(rest, ']'); end >= 0 {
				rest = rest[:end]
			}
			for _, child := range strings.Split(rest, "|") {
				child = strings.TrimSpace(child)
				if child != "" {
					out = append(out, parent+child)
				}
			}
			continue
		}
		part = strings.TrimSuffix(part, "*")
		part = strings.TrimSuffix(part, ".")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
