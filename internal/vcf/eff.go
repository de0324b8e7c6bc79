package vcf

import "strings"

// EffectFieldNames is the snpEff EFF payload layout:
//
//	Effect(Effect_Impact|Functional_Class|Codon_Change|Amino_Acid_Change|
//	       Amino_Acid_length|Gene_Name|Transcript_BioType|Gene_Coding|
//	       Transcript_ID|Exon_Rank|Genotype ERRORS|Genotype WARNINGS)
//
// Records may carry fewer fields; trailing names are then left unset.
var EffectFieldNames = []string{
	"Effect_Impact",
	"Functional_Class",
	"Codon_Change",
	"Amino_Acid_Change",
	"Amino_Acid_length",
	"Gene_Name",
	"Transcript_BioType",
	"Gene_Coding",
	"Transcript_ID",
	"Exon_Rank",
	"Genotype ERRORS",
	"Genotype WARNINGS",
}

// Effect is one transcript-level consequence from the EFF tag.
type Effect struct {
	Type              string // e.g. missense_variant, intergenic_region
	Impact            string
	FunctionalClass   string
	CodonChange       string
	AminoAcidChange   string
	AminoAcidLength   string
	GeneName          string
	TranscriptBiotype string
	GeneCoding        string
	TranscriptID      string
	ExonRank          string
	Errors            string
	Warnings          string

	Fields int    // number of payload fields present
	Raw    string // entry as written
}

func (e *Effect) slots() []*string {
	return []*string{
		&e.Impact, &e.FunctionalClass, &e.CodonChange, &e.AminoAcidChange,
		&e.AminoAcidLength, &e.GeneName, &e.TranscriptBiotype, &e.GeneCoding,
		&e.TranscriptID, &e.ExonRank, &e.Errors, &e.Warnings,
	}
}

// Field returns a payload field by its EffectFieldNames name.
func (e *Effect) Field(name string) (string, bool) {
	slots := e.slots()
	for i, n := range EffectFieldNames {
		if n == name {
			if i >= e.Fields {
				return "", false
			}
			return *slots[i], true
		}
	}
	return "", false
}

// ParseEffects parses a comma-separated EFF value.
func ParseEffects(value string) ([]Effect, error) {
	var effects []Effect
	for _, raw := range strings.Split(value, ",") {
		if raw == "" {
			continue
		}
		open := strings.IndexByte(raw, '(')
		if open < 0 {
			return nil, &MalformedInfoError{Segment: raw, Reason: "EFF entry without parenthesized payload"}
		}
		end := strings.IndexByte(raw[open+1:], ')')
		if end < 0 {
			return nil, &MalformedInfoError{Segment: raw, Reason: "unterminated EFF payload"}
		}
		payload := raw[open+1 : open+1+end]

		e := Effect{Type: raw[:open], Raw: raw}
		fields := strings.Split(payload, "|")
		slots := e.slots()
		n := len(fields)
		if n > len(slots) {
			n = len(slots)
		}
		for i := 0; i < n; i++ {
			*slots[i] = fields[i]
		}
		e.Fields = n
		effects = append(effects, e)
	}
	return effects, nil
}

// SelectEffects keeps the entries that carry a protein-level change. When
// none do, it keeps the intergenic_region entries, and failing that all
// entries, so every variant yields at least one effect.
func SelectEffects(effects []Effect) []Effect {
	var protein, intergenic []Effect
	for _, e := range effects {
		if strings.Contains(e.Raw, "|p.") {
			protein = append(protein, e)
		} else if strings.Contains(e.Raw, "intergenic_region") {
			intergenic = append(intergenic, e)
		}
	}
	if len(protein) > 0 {
		return protein
	}
	if len(intergenic) > 0 {
		return intergenic
	}
	return effects
}
