package functional

import (
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// parsingArtifact is a lineage name fused to a mutation by an upstream
// export; it is reduced to the mutation alone.
const parsingArtifact = `B.1.617.2\tT19R`

// SplitCompositeNames harmonizes a functional annotation table with split
// VCF names. Every cell is trimmed; comb_mutation loses quotes and spaces;
// each composite name in comb_mutation and mutation is replaced by its
// comma-joined constituents; and mutation is exploded on commas into one
// row per name. Column order is kept.
func SplitCompositeNames(t *tsv.Table, splits *Splits) (*tsv.Table, error) {
	if err := t.Require("mutation", "comb_mutation"); err != nil {
		return nil, err
	}
	mutIdx, _ := t.Column("mutation")
	combIdx, _ := t.Column("comb_mutation")

	var rows [][]string
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}

		comb := strings.ReplaceAll(cells[combIdx], parsingArtifact, "T19R")
		comb = strings.NewReplacer("'", "", " ", "").Replace(comb)
		mutation := cells[mutIdx]
		for _, name := range splits.Names() {
			constituents, _ := splits.Lookup(name)
			joined := strings.Join(constituents, ",")
			comb = strings.ReplaceAll(comb, name, joined)
			mutation = strings.ReplaceAll(mutation, name, joined)
		}
		cells[combIdx] = comb

		for _, m := range strings.Split(mutation, ",") {
			exploded := make([]string, len(cells))
			copy(exploded, cells)
			exploded[mutIdx] = m
			rows = append(rows, exploded)
		}
	}
	return tsv.New(t.Source, append([]string(nil), t.Header...), rows), nil
}
