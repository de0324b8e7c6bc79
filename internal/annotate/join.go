package annotate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/gvf"
)

// NoMatch describes a mutation group whose annotations were dropped
// because some members are not in the VCF.
type NoMatch struct {
	Group   []string
	Missing []string
	Rows    int
}

// JoinResult holds joined records and name diagnostics.
type JoinResult struct {
	Records   []*gvf.Record
	NoMatches []NoMatch
	VCFOnly   []string
	TableOnly []string
}

type joinedRow struct {
	rec   *gvf.Record
	group []string
	label string
}

// Join attaches functional annotations to records. Every record is kept at
// least once; a record matching several entries is repeated per entry in
// table order. Rows are then grouped by mutation group: groups whose
// members all occur in the VCF get an ID_<n> in first-seen order, other
// groups are dropped and reported.
func Join(records []*gvf.Record, fa *functional.Annotations) *JoinResult {
	res := &JoinResult{}

	present := make(map[string]bool)
	var vcfNames []string
	for _, r := range records {
		key := MutationKey(r.Attributes.Value("Name"))
		if !present[key] {
			present[key] = true
			vcfNames = append(vcfNames, key)
		}
	}

	var rows []joinedRow
	for _, r := range records {
		key := MutationKey(r.Attributes.Value("Name"))
		multi := functional.ParseMembers(r.Attributes.Value("multiaa_comb_mutation"))

		entries := fa.Lookup(key)
		if len(entries) == 0 {
			entries = []functional.Entry{{}}
		}
		for _, e := range entries {
			cp := r.Clone()
			setFunctional(cp.Attributes, e)

			members := []string{key}
			members = append(members, functional.ParseMembers(e.CombMutation)...)
			members = append(members, multi...)
			group := normalizeGroup(members)
			rows = append(rows, joinedRow{rec: cp, group: group, label: strings.Join(group, ",")})
		}
	}

	ids := make(map[string]string)
	dropped := make(map[string]int) // label -> NoMatches index
	n := 0
	for _, row := range rows {
		if id, ok := ids[row.label]; ok {
			row.rec.Attributes.Set("ID", id)
			res.Records = append(res.Records, row.rec)
			continue
		}
		if i, ok := dropped[row.label]; ok {
			res.NoMatches[i].Rows++
			continue
		}

		var missing []string
		for _, m := range row.group {
			if !present[m] {
				missing = append(missing, m)
			}
		}
		if len(missing) > 0 {
			dropped[row.label] = len(res.NoMatches)
			res.NoMatches = append(res.NoMatches, NoMatch{Group: row.group, Missing: missing, Rows: 1})
			continue
		}

		id := "ID_" + strconv.Itoa(n)
		n++
		ids[row.label] = id
		row.rec.Attributes.Set("ID", id)
		res.Records = append(res.Records, row.rec)
	}

	for _, name := range vcfNames {
		if !fa.Has(name) {
			res.VCFOnly = append(res.VCFOnly, name)
		}
	}
	for _, name := range fa.Names() {
		if !present[name] {
			res.TableOnly = append(res.TableOnly, name)
		}
	}
	sort.Strings(res.VCFOnly)
	sort.Strings(res.TableOnly)
	return res
}

func setFunctional(a *gvf.Attributes, e functional.Entry) {
	heterozygous := "False"
	if e.Heterozygosity == "heterozygous" {
		heterozygous = "True"
	}
	a.Set("function_category", e.FunctionCategory)
	a.Set("source", e.Source)
	a.Set("citation", strings.TrimSpace(e.Citation))
	a.Set("comb_mutation", e.CombMutation)
	a.Set("function_description", strings.ReplaceAll(e.FunctionDescription, ";", ":"))
	a.Set("heterozygosity", heterozygous)
}

// normalizeGroup strips quotes and spaces, drops empty and "nan" members,
// and returns the sorted distinct members.
func normalizeGroup(members []string) []string {
	seen := make(map[string]bool, len(members))
	var out []string
	for _, m := range members {
		m = strings.NewReplacer("'", "", " ", "").Replace(m)
		if m == "" || m == "nan" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
