package genes

import (
	"github.com/biogo/store/interval"
)

const (
	// Intergenic labels positions outside every gene.
	Intergenic = "intergenic"
	// NoProtein labels positions outside every protein.
	NoProtein = "n/a"

	stemLoop      = "Stem-loop"
	stemLoopLabel = "Stem-loop,3' UTR"
)

// region adapts a Region to the interval tree. Ranges are half-open, so
// End is one past the last covered base.
type region struct {
	uid  uintptr
	name string
	r    interval.IntRange
}

func (g region) Overlap(b interval.IntRange) bool {
	return g.r.Start < b.End && b.Start < g.r.End
}
func (g region) ID() uintptr              { return g.uid }
func (g region) Range() interval.IntRange { return g.r }

// point queries a single base.
type point int

func (p point) Overlap(b interval.IntRange) bool {
	return b.Start <= int(p) && int(p) < b.End
}

// Locator finds the gene and protein covering a position.
type Locator struct {
	genes    interval.IntTree
	proteins interval.IntTree
}

// NewLocator indexes the position tables.
func NewLocator(p *Positions) (*Locator, error) {
	l := &Locator{}
	if err := build(&l.genes, p.Genes); err != nil {
		return nil, err
	}
	if err := build(&l.proteins, p.Proteins); err != nil {
		return nil, err
	}
	return l, nil
}

func build(tree *interval.IntTree, regions []Region) error {
	for i, r := range regions {
		start, end := r.Start, r.End
		if end < start {
			start, end = end, start
		}
		g := region{
			uid:  uintptr(i),
			name: r.Name,
			r:    interval.IntRange{Start: int(start), End: int(end) + 1},
		}
		if err := tree.Insert(g, true); err != nil {
			return err
		}
	}
	tree.AdjustRanges()
	return nil
}

// lookup returns the name of the covering region that appears last in the
// table, or "" when none covers pos.
func lookup(tree *interval.IntTree, pos int64) string {
	var best region
	found := false
	for _, hit := range tree.Get(point(pos)) {
		g := hit.(region)
		if !found || g.uid > best.uid {
			best = g
			found = true
		}
	}
	return best.name
}

// Gene returns the gene covering pos. Uncovered positions are intergenic.
func (l *Locator) Gene(pos int64) string {
	name := lookup(&l.genes, pos)
	switch name {
	case "":
		return Intergenic
	case stemLoop:
		return stemLoopLabel
	}
	return name
}

// Protein returns the protein covering pos, or "n/a".
func (l *Locator) Protein(pos int64) string {
	if name := lookup(&l.proteins, pos); name != "" {
		return name
	}
	return NoProtein
}

// Locate returns the gene and protein labels for pos.
func (l *Locator) Locate(pos int64) (gene, protein string) {
	return l.Gene(pos), l.Protein(pos)
}
