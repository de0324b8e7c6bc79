package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-gvf/internal/vcf"
)

func TestNameEffect(t *testing.T) {
	tests := []struct {
		name   string
		v      *vcf.Variant
		effect vcf.Effect
		want   MutationName
	}{
		{
			name:   "missense",
			v:      &vcf.Variant{Pos: 23403, Ref: "A", Alt: "G"},
			effect: vcf.Effect{AminoAcidChange: "p.D614G/c.1841A>G", GeneName: "S"},
			want:   MutationName{Name: "D614G", HGVSProtein: "p.D614G", HGVSNucleotide: "g.1841A>G", Gene: "S"},
		},
		{
			name:   "intergenic",
			v:      &vcf.Variant{Pos: 241, Ref: "C", Alt: "T"},
			effect: vcf.Effect{AminoAcidChange: "n.241C>T", GeneName: "CHR_START-ORF1ab"},
			want:   MutationName{Name: "n.241C>T", HGVSNucleotide: "g.241C>T", Gene: "CHR_START-ORF1ab"},
		},
		{
			name:   "past the stop codon",
			v:      &vcf.Variant{Pos: 29742, Ref: "G", Alt: "T"},
			effect: vcf.Effect{AminoAcidChange: "n.*16G>T", GeneName: "N-CHR_END"},
			want:   MutationName{Name: "n.*16G>T", HGVSNucleotide: "g.G29742T", Gene: "intergenic"},
		},
		{
			name:   "empty change",
			v:      &vcf.Variant{Pos: 100, Ref: "A", Alt: "C"},
			effect: vcf.Effect{GeneName: "ORF1ab"},
			want:   MutationName{Gene: "ORF1ab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameEffect(tt.v, tt.effect))
		})
	}
}

func TestMutationKey(t *testing.T) {
	assert.Equal(t, "H69del", MutationKey("p.H69del"))
	assert.Equal(t, "D614G", MutationKey("D614G"))
}
