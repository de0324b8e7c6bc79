// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string   // Chromosome name (e.g., "MN908947.3")
	Pos    int64    // 1-based genomic position
	ID     string   // Variant identifier
	Ref    string   // Reference allele
	Alt    string   // Alternate allele(s), comma-separated when multi-allelic
	Qual   float64  // Quality score
	Filter string   // Filter status (PASS or filter name)
	Info   string   // Raw INFO column
	Format []string // FORMAT keys (e.g., GT, DP, RO, AO)
	Sample []string // Values of the first sample column, aligned with Format
}

// Freebayes writes GT:DP:AD:RO:QR:AO:QA:GL; these are the positions used
// when FORMAT does not name a field.
var defaultSampleIndex = map[string]int{
	"RO": 3,
	"AO": 5,
}

// SampleValue returns the first sample's value for a FORMAT key. When the
// key is absent from FORMAT, the freebayes column position is used.
func (v *Variant) SampleValue(key string) (string, bool) {
	for i, k := range v.Format {
		if k == key {
			if i < len(v.Sample) {
				return v.Sample[i], true
			}
			return "", false
		}
	}
	if i, ok := defaultSampleIndex[key]; ok && i < len(v.Sample) {
		return v.Sample[i], true
	}
	return "", false
}

// Alts returns the alternate alleles.
func (v *Variant) Alts() []string {
	return strings.Split(v.Alt, ",")
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// VariantType classifies the variant using the freebayes TYPE vocabulary:
// snp, mnp, ins, del or complex.
func (v *Variant) VariantType() string {
	if strings.Contains(v.Alt, ",") {
		return "complex"
	}
	switch {
	case v.IsSNV():
		return "snp"
	case v.IsInsertion():
		return "ins"
	case v.IsDeletion():
		return "del"
	default:
		return "mnp"
	}
}
