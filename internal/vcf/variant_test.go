package vcf

import "testing"

func TestVariant_AlleleClasses(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		alt       string
		snv       bool
		indel     bool
		insertion bool
		deletion  bool
	}{
		{"D614G", "A", "G", true, false, false, false},
		{"HV69-70 deletion", "TACATG", "T", false, true, false, true},
		{"ORF8 insertion", "A", "AGAT", false, true, true, false},
		{"GGG>AAC MNV", "GGG", "AAC", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{Ref: tt.ref, Alt: tt.alt}
			if got := v.IsSNV(); got != tt.snv {
				t.Errorf("IsSNV() = %v, want %v", got, tt.snv)
			}
			if got := v.IsIndel(); got != tt.indel {
				t.Errorf("IsIndel() = %v, want %v", got, tt.indel)
			}
			if got := v.IsInsertion(); got != tt.insertion {
				t.Errorf("IsInsertion() = %v, want %v", got, tt.insertion)
			}
			if got := v.IsDeletion(); got != tt.deletion {
				t.Errorf("IsDeletion() = %v, want %v", got, tt.deletion)
			}
		})
	}
}

func TestVariant_VariantType(t *testing.T) {
	tests := []struct {
		ref  string
		alt  string
		want string
	}{
		{"A", "G", "snp"},
		{"A", "AT", "ins"},
		{"AT", "A", "del"},
		{"GGG", "AAC", "mnp"},
		{"A", "G,T", "complex"},
	}

	for _, tt := range tests {
		t.Run(tt.ref+">"+tt.alt, func(t *testing.T) {
			v := &Variant{Ref: tt.ref, Alt: tt.alt}
			if got := v.VariantType(); got != tt.want {
				t.Errorf("VariantType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariant_SampleValue(t *testing.T) {
	v := &Variant{
		Format: []string{"GT", "AO", "DP", "RO"},
		Sample: []string{"1/1", "17", "20", "3"},
	}
	if got, ok := v.SampleValue("AO"); !ok || got != "17" {
		t.Errorf("SampleValue(AO) = %q, %v", got, ok)
	}
	if got, ok := v.SampleValue("RO"); !ok || got != "3" {
		t.Errorf("SampleValue(RO) = %q, %v", got, ok)
	}
	if _, ok := v.SampleValue("QA"); ok {
		t.Error("Expected QA to be missing")
	}

	// Without FORMAT names the freebayes layout applies.
	positional := &Variant{Sample: []string{"1/1", "20", "3,17", "3", "100", "17", "600", "-1,0,-5"}}
	if got, ok := positional.SampleValue("RO"); !ok || got != "3" {
		t.Errorf("positional RO = %q, %v", got, ok)
	}
	if got, ok := positional.SampleValue("AO"); !ok || got != "17" {
		t.Errorf("positional AO = %q, %v", got, ok)
	}

	short := &Variant{Format: []string{"GT", "AO"}, Sample: []string{"1/1"}}
	if _, ok := short.SampleValue("AO"); ok {
		t.Error("Expected AO to be missing when the sample column is short")
	}
}

func TestVariant_Alts(t *testing.T) {
	v := &Variant{Ref: "A", Alt: "G,T"}
	alts := v.Alts()
	if len(alts) != 2 || alts[0] != "G" || alts[1] != "T" {
		t.Errorf("Alts() = %v", alts)
	}
}
