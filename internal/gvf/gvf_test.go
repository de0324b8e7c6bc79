package gvf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_SetReplacesInPlace(t *testing.T) {
	a := NewAttributes()
	a.Set("Name", "D614G")
	a.Set("vcf_gene", "S")
	a.Set("Name", "p.D614G")

	assert.Equal(t, []string{"Name", "vcf_gene"}, a.Keys())
	assert.Equal(t, "p.D614G", a.Value("Name"))

	a.Delete("Name")
	assert.Equal(t, []string{"vcf_gene"}, a.Keys())
	_, ok := a.Get("Name")
	assert.False(t, ok)
}

func TestAttributes_Clone(t *testing.T) {
	a := NewAttributes()
	a.Set("Name", "N501Y")
	c := a.Clone()
	c.Set("Name", "E484K")
	c.Set("ID", "ID_1")

	assert.Equal(t, "N501Y", a.Value("Name"))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, c.Len())
}

func TestEncodeAttributes_Order(t *testing.T) {
	a := NewAttributes()
	a.Set("extra_tag", "x")
	a.Set("status", "Current")
	a.Set("Name", "D614G")
	a.Set("another", "y")
	a.Set("ID", "ID_1")
	a.Set("alternate_frequency", "0.6")

	assert.Equal(t,
		"ID=ID_1;Name=D614G;alternate_frequency=0.6;status=Current;extra_tag=x;another=y;",
		EncodeAttributes(a))
}

func TestDecodeAttributes(t *testing.T) {
	a := DecodeAttributes("ID=ID_1;Name=D614G;ps_filter=;flag;")
	assert.Equal(t, []string{"ID", "Name", "ps_filter", "flag"}, a.Keys())
	assert.Equal(t, "D614G", a.Value("Name"))
	v, ok := a.Get("flag")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	rec := NewRecord("MN908947.3", "snp", 23403, 23403)
	rec.Attributes.Set("Name", "D614G")
	rec.Attributes.Set("ID", "ID_1")
	rec.Attributes.Set("function_description", "Increased infectivity: higher viral load")

	path := filepath.Join(t.TempDir(), "out.gvf")
	require.NoError(t, WriteFile(path, DefaultPragmas(""), []*Record{rec}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "##gff-version 3", lines[0])
	assert.Equal(t, "##gvf-version 1.10", lines[1])
	assert.Equal(t, "##species "+DefaultSpecies, lines[2])
	assert.Equal(t,
		"MN908947.3\t.\tsnp\t23403\t23403\t.\t+\t.\tID=ID_1;Name=D614G;function_description=Increased infectivity: higher viral load;",
		lines[3])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPragmas(""), f.Pragmas)
	require.Len(t, f.Records, 1)
	got := f.Records[0]
	assert.Equal(t, int64(23403), got.Start)
	assert.Equal(t, "snp", got.Type)
	assert.Equal(t, []string{"ID", "Name", "function_description"}, got.Attributes.Keys())
}

func TestRead_SkipsComments(t *testing.T) {
	input := "##gff-version 3\n#seqid\tsource\ttype\n\nMN908947.3\t.\tdel\t21765\t21765\t.\t+\t.\tName=H69_V70del;\n"
	f, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"##gff-version 3"}, f.Pragmas)
	require.Len(t, f.Records, 1)
	assert.Equal(t, "H69_V70del", f.Records[0].Attributes.Value("Name"))
}

func TestRead_BadRecord(t *testing.T) {
	_, err := Read(strings.NewReader("MN908947.3\t.\tsnp\tabc\t1\t.\t+\t.\tName=x;\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = Read(strings.NewReader("MN908947.3\t.\tsnp\n"))
	require.Error(t, err)
}
