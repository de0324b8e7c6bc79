// Package sizestats resolves the number of genomes behind a VCF from a
// sequence statistics table.
package sizestats

import (
	"path/filepath"
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// NotAvailable is the sample size when no statistics table is given.
const NotAvailable = "n/a"

// Table is a whitespace-delimited statistics table with "file" and
// "num_seqs" columns, as written by "seqkit stats".
type Table struct {
	t *tsv.Table
}

// Load reads a statistics table.
func Load(path string) (*Table, error) {
	t, err := tsv.LoadWithOptions(path, tsv.Options{Whitespace: true})
	if err != nil {
		return nil, err
	}
	return FromTable(t)
}

// FromTable wraps a parsed statistics table.
func FromTable(t *tsv.Table) (*Table, error) {
	if err := t.Require("file", "num_seqs"); err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

// SampleSize returns num_seqs for the run. With a lineage it matches the
// first file starting with "<lineage>.qc."; otherwise the first file
// starting with the VCF file name up to ".sorted". A nil table yields
// NotAvailable.
func (s *Table) SampleSize(lineage, vcfPath string) (string, error) {
	if s == nil {
		return NotAvailable, nil
	}

	var prefix string
	if lineage != "" && lineage != NotAvailable {
		prefix = lineage + ".qc."
	} else {
		base := filepath.Base(vcfPath)
		prefix, _, _ = strings.Cut(base, ".sorted")
	}

	for _, row := range s.t.Rows {
		if strings.HasPrefix(s.t.Value(row, "file"), prefix) {
			return strings.ReplaceAll(s.t.Value(row, "num_seqs"), ",", ""), nil
		}
	}
	return "", &tsv.MissingReferenceDataError{Source: s.t.Source, Key: prefix}
}
