package metadata

import (
	"math/rand/v2"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// Sample draws n rows without replacement when the subset has more than n
// rows, keeping file order. n <= 0 keeps every row.
func (sub *Subset) Sample(n int, rng *rand.Rand) *Subset {
	if n <= 0 || len(sub.Rows) <= n {
		return sub
	}
	idx := rng.Perm(len(sub.Rows))[:n]
	sort.Ints(idx)

	out := &Subset{Header: sub.Header, Rows: make([][]string, n)}
	for i, j := range idx {
		out.Rows[i] = sub.Rows[j]
	}
	return out
}

// Output names the files written for a subset.
type Output struct {
	Dir  string
	Name string // file name stem, e.g. "B.1.1.7" or "2021-01-01_2021-01-07"
	Ext  string // metadata extension, e.g. ".tsv.gz"
}

// IDsPath returns the isolate list path.
func (o Output) IDsPath() string {
	return filepath.Join(o.Dir, o.Name+".txt")
}

// MetadataPath returns the metadata table path.
func (o Output) MetadataPath() string {
	return filepath.Join(o.Dir, o.Name+"_Metadata"+o.Ext)
}

// Write writes the isolate ids, one per line, and the subset as a
// tab-delimited table, gzipped when the extension ends in ".gz".
func (sub *Subset) Write(o Output) error {
	var sb strings.Builder
	for _, id := range sub.Isolates() {
		sb.WriteString(id)
		sb.WriteByte('\n')
	}
	if err := tsv.AtomicWrite(o.IDsPath(), []byte(sb.String())); err != nil {
		return err
	}
	return tsv.WriteFile(o.MetadataPath(), sub.Header, sub.Rows)
}
