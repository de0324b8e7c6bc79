package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/gvf"
)

func namedRecord(pos int64, name string) *gvf.Record {
	r := gvf.NewRecord("MN908947.3", "snp", pos, pos)
	r.Attributes.Set("Name", name)
	r.Attributes.Set("multi_aa_name", "")
	r.Attributes.Set("multiaa_comb_mutation", "")
	return r
}

func TestSplitNames(t *testing.T) {
	splits := functional.NewSplits()
	splits.Add("H69_V70del", []string{"H69del", "V70del"})
	splits.Add("R203_G204delinsKR", []string{"R203K", "G204R"})

	records := []*gvf.Record{
		namedRecord(21765, "H69_V70del"),
		namedRecord(23403, "D614G"),
		namedRecord(28881, "R203_G204delinsKR"),
	}

	out := SplitNames(records, splits)
	require.Len(t, out, 5)

	var names []string
	for _, r := range out {
		names = append(names, r.Attributes.Value("Name"))
	}
	assert.Equal(t, []string{"p.H69del", "p.V70del", "D614G", "p.R203K", "p.G204R"}, names)

	assert.Equal(t, "H69_V70del", out[0].Attributes.Value("multi_aa_name"))
	assert.Equal(t, "V70del", out[0].Attributes.Value("multiaa_comb_mutation"))
	assert.Equal(t, "H69del", out[1].Attributes.Value("multiaa_comb_mutation"))
	assert.Empty(t, out[2].Attributes.Value("multi_aa_name"))
	assert.Same(t, records[1], out[2], "unsplit records pass through")

	// Copies are independent.
	out[0].Attributes.Set("ID", "ID_9")
	_, ok := out[1].Attributes.Get("ID")
	assert.False(t, ok)
}

func TestSplitNames_LengthPreserving(t *testing.T) {
	splits := functional.NewSplits()
	splits.Add("A1_C3del", []string{"A1del", "B2del", "C3del"})

	records := []*gvf.Record{
		namedRecord(1, "A1_C3del"),
		namedRecord(2, "p.A1_C3del"),
		namedRecord(3, "K417N"),
	}
	out := SplitNames(records, splits)
	assert.Len(t, out, 3+3+1)
	assert.Equal(t, "A1del,C3del", out[1].Attributes.Value("multiaa_comb_mutation"))
}

func TestSplitNames_NoTable(t *testing.T) {
	records := []*gvf.Record{namedRecord(1, "H69_V70del")}
	assert.Equal(t, records, SplitNames(records, nil))
}

func TestAssignIDsByName(t *testing.T) {
	records := []*gvf.Record{
		namedRecord(21765, "p.H69del"),
		namedRecord(21765, "p.V70del"),
		namedRecord(23403, "p.D614G"),
		namedRecord(23403, "p.H69del"),
	}
	AssignIDsByName(records)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.Attributes.Value("ID"))
	}
	assert.Equal(t, []string{"ID_0", "ID_1", "ID_2", "ID_0"}, ids)
}
