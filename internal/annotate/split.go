package annotate

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/gvf"
)

// SplitNames replaces every record whose Name is a composite in splits with
// one copy per constituent, in place. Each copy is named "p.<constituent>"
// and records the composite in multi_aa_name and the other constituents in
// multiaa_comb_mutation.
func SplitNames(records []*gvf.Record, splits *functional.Splits) []*gvf.Record {
	if splits.Len() == 0 {
		return records
	}

	out := make([]*gvf.Record, 0, len(records))
	for _, r := range records {
		composite := MutationKey(r.Attributes.Value("Name"))
		constituents, ok := splits.Lookup(composite)
		if !ok || len(constituents) == 0 {
			out = append(out, r)
			continue
		}
		for i, c := range constituents {
			others := make([]string, 0, len(constituents)-1)
			others = append(others, constituents[:i]...)
			others = append(others, constituents[i+1:]...)

			cp := r.Clone()
			cp.Attributes.Set("Name", "p."+c)
			cp.Attributes.Set("multi_aa_name", composite)
			cp.Attributes.Set("multiaa_comb_mutation", strings.Join(others, ","))
			out = append(out, cp)
		}
	}
	return out
}

// AssignIDsByName sets ID=ID_<n> on every record, numbering distinct Name
// values in first-seen order.
func AssignIDsByName(records []*gvf.Record) {
	ids := make(map[string]int)
	for _, r := range records {
		name := r.Attributes.Value("Name")
		n, ok := ids[name]
		if !ok {
			n = len(ids)
			ids[name] = n
		}
		r.Attributes.Set("ID", "ID_"+strconv.Itoa(n))
	}
}
