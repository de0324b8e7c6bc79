package annotate

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-gvf/internal/vcf"
)

// MutationName holds the names derived from one EFF entry.
type MutationName struct {
	Name           string // amino acid change without "p.", or the nucleotide change
	HGVSProtein    string // e.g. "p.D614G", empty for non-coding changes
	HGVSNucleotide string // genome-level change, e.g. "g.1841A>G"
	Gene           string // EFF gene name, "intergenic" for UTR changes
}

// NameEffect derives mutation names from an effect of v.
func NameEffect(v *vcf.Variant, e vcf.Effect) MutationName {
	change := e.AminoAcidChange

	left, protein, nucleotide := change, "", change
	if i := strings.IndexByte(change, '/'); i >= 0 {
		left = change[:i]
		protein = left
		nucleotide, _, _ = strings.Cut(change[i+1:], "/")
	}

	m := MutationName{
		Name:           strings.TrimPrefix(left, "p."),
		HGVSProtein:    protein,
		HGVSNucleotide: genomicPrefix(nucleotide),
		Gene:           e.GeneName,
	}

	// Changes such as "n.*16G>T" lie past the last coding base; name them
	// by genome position.
	if strings.Contains(m.HGVSNucleotide, "*") {
		m.HGVSNucleotide = "g." + v.Ref + strconv.FormatInt(v.Pos, 10) + v.Alt
		m.Gene = "intergenic"
	}
	return m
}

func genomicPrefix(s string) string {
	for _, p := range []string{"c.", "n."} {
		if strings.HasPrefix(s, p) {
			return "g." + s[len(p):]
		}
	}
	return s
}

// MutationKey is the name used to join records with functional
// annotations.
func MutationKey(name string) string {
	return strings.TrimPrefix(name, "p.")
}
