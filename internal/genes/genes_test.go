package genes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

func loadTestLocator(t *testing.T) *Locator {
	t.Helper()
	p, err := LoadPositions(filepath.Join("..", "..", "testdata", "gene_positions.json"))
	require.NoError(t, err)
	l, err := NewLocator(p)
	require.NoError(t, err)
	return l
}

func TestLoadPositions(t *testing.T) {
	p, err := LoadPositions(filepath.Join("..", "..", "testdata", "gene_positions.json"))
	require.NoError(t, err)

	require.Len(t, p.Genes, 6)
	assert.Equal(t, "ORF1ab", p.Genes[0].Key)
	assert.Equal(t, int64(266), p.Genes[0].Start)
	assert.Equal(t, "Stem-loop", p.Genes[5].Name)

	require.Len(t, p.Proteins, 2)
	assert.Equal(t, "surface glycoprotein", p.Proteins[1].Name)
}

func TestParsePositions_StartEnd(t *testing.T) {
	doc := `{"genes": {"OPG001": {"name": "OPG001", "color": "rgb(1, 2, 3)", "coordinates": {"start": 10, "end": 20}}}}`
	p, err := ParsePositions([]byte(doc), "test.json")
	require.NoError(t, err)
	require.Len(t, p.Genes, 1)
	assert.Equal(t, Region{Key: "OPG001", Name: "OPG001", Start: 10, End: 20}, p.Genes[0])
	assert.Empty(t, p.Proteins)
}

func TestParsePositions_MissingCoordinates(t *testing.T) {
	_, err := ParsePositions([]byte(`{"genes": {"S": {}}}`), "test.json")
	var me *tsv.MissingReferenceDataError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, "genes.S.coordinates", me.Key)

	_, err = ParsePositions([]byte(`{"proteins": {"nsp1": {"name": "x", "g.coordinates": {"from": 1}}}}`), "test.json")
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestLocator_Locate(t *testing.T) {
	l := loadTestLocator(t)

	tests := []struct {
		pos     int64
		gene    string
		protein string
	}{
		{241, Intergenic, NoProtein},
		{266, "ORF1ab", "leader protein"},
		{805, "ORF1ab", "leader protein"},
		{806, "ORF1ab", NoProtein},
		{21555, "ORF1ab", NoProtein},
		{21556, Intergenic, NoProtein},
		{23403, "S", "surface glycoprotein"},
		{29742, "Stem-loop,3' UTR", NoProtein},
		{29903, Intergenic, NoProtein},
	}

	for _, tt := range tests {
		gene, protein := l.Locate(tt.pos)
		assert.Equal(t, tt.gene, gene, "gene at %d", tt.pos)
		assert.Equal(t, tt.protein, protein, "protein at %d", tt.pos)
	}
}

func TestLocator_LastMatchWins(t *testing.T) {
	l, err := NewLocator(&Positions{
		Genes: []Region{
			{Name: "ORF1ab", Start: 266, End: 21555},
			{Name: "ORF1a", Start: 266, End: 13483},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORF1a", l.Gene(1000))
	assert.Equal(t, "ORF1ab", l.Gene(20000))
	assert.Equal(t, NoProtein, l.Protein(1000))
}

const testGFF = `##gff-version 3
##sequence-region NC_063383.1 1 197209
NC_063383.1	RefSeq	region	1	197209	.	+	.	ID=NC_063383.1:1..197209;Dbxref=taxon:10244
NC_063383.1	RefSeq	gene	1410	2345	.	-	.	ID=gene-OPG001;Name=OPG001;gbkey=Gene
NC_063383.1	RefSeq	CDS	1410	2345	.	-	0	ID=cds-1;Parent=gene-OPG001;Name=OPG001
NC_063383.1	RefSeq	gene	2403	3152	.	-	.	ID=gene-OPG002;Name=OPG002
NC_063383.1	RefSeq	gene	2403	3152	.	-	.	ID=gene-OPG002b;Name=OPG002
NC_063383.1	RefSeq	gene	190000	191000	.	+	.	ID=gene-OPG001r;Name=OPG001
`

func TestReadGFFGenes(t *testing.T) {
	genes, err := ReadGFFGenes(strings.NewReader(testGFF))
	require.NoError(t, err)
	require.Len(t, genes, 4)
	assert.Equal(t, GeneFeature{Name: "OPG001", Start: 1410, End: 2345}, genes[0])
	assert.Equal(t, "OPG002", genes[2].Name)
}

func TestReadGFFGenes_MissingName(t *testing.T) {
	_, err := ReadGFFGenes(strings.NewReader("chr\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene-1\n"))
	var me *tsv.MissingReferenceDataError
	require.True(t, errors.As(err, &me), "got %v", err)
}

func TestGeneTable(t *testing.T) {
	genes, err := ReadGFFGenes(strings.NewReader(testGFF))
	require.NoError(t, err)

	keys, table := GeneTable(genes)
	assert.Equal(t, []string{"OPG001", "OPG002", "OPG001_repeat_1"}, keys)
	assert.Equal(t, Palette[0], table["OPG001"].Color)
	assert.Equal(t, Palette[1], table["OPG002"].Color)
	assert.Equal(t, Palette[0], table["OPG001_repeat_1"].Color)
	assert.Equal(t, "OPG001", table["OPG001_repeat_1"].Name)
	assert.Equal(t, int64(190000), table["OPG001_repeat_1"].Coordinates.Start)
}

func TestGeneTable_PaletteCycles(t *testing.T) {
	var genes []GeneFeature
	for i := 0; i < 12; i++ {
		genes = append(genes, GeneFeature{Name: "G" + string(rune('A'+i)), Start: int64(i * 100), End: int64(i*100 + 50)})
	}
	keys, table := GeneTable(genes)
	require.Len(t, keys, 12)
	assert.Equal(t, Palette[0], table["GK"].Color)
	assert.Equal(t, Palette[1], table["GL"].Color)
}

func TestConvertGFF(t *testing.T) {
	dir := t.TempDir()
	gffPath := filepath.Join(dir, "mpox.gff")
	startPath := filepath.Join(dir, "start.json")
	outPath := filepath.Join(dir, "mpox.json")

	require.NoError(t, os.WriteFile(gffPath, []byte(testGFF), 0o644))
	start := `{"reference": "Nigeria-2018", "accession": "NC_063383.1", "species": "https://www.ncbi.nlm.nih.gov/Taxonomy/Browser/wwwtax.cgi?id=10244", "genome": "ACTG"}`
	require.NoError(t, os.WriteFile(startPath, []byte(start), 0o644))

	n, err := ConvertGFF(gffPath, startPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "{\n  \"reference\": \"Nigeria-2018\",\n  \"accession\""), out)
	assert.Less(t, strings.Index(out, `"genome"`), strings.Index(out, `"genes"`))
	assert.Contains(t, out, "\"OPG001_repeat_1\": {\n      \"name\": \"OPG001\"")

	// The written document loads back as a position table.
	p, err := LoadPositions(outPath)
	require.NoError(t, err)
	require.Len(t, p.Genes, 3)
	assert.Equal(t, int64(2403), p.Genes[1].Start)
}

func TestBuildPositionsJSON_ReplacesGenes(t *testing.T) {
	out, err := BuildPositionsJSON([]byte(`{"genes": {}, "accession": "X"}`), []GeneFeature{{Name: "A", Start: 1, End: 9}})
	require.NoError(t, err)
	s := string(out)
	assert.Less(t, strings.Index(s, `"genes"`), strings.Index(s, `"accession"`))
	assert.Equal(t, 1, strings.Count(s, `"genes"`))
}
