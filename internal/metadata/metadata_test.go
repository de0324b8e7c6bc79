package metadata

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

var testHeader = []string{"isolate", "host_scientific_name", "sample_collection_date", "length", "lineage"}

var testRows = [][]string{
	{"s1", "Homo sapiens", "2021-01-01", "29800", "B.1.1.7"},
	{"s2", "homo sapiens", "2021-01-05", "29500", "B.1.1.7"},
	{"s3", "Homo sapiens", "2021-01-08", "28000", "B.1.1.7"},
	{"s4", "Felis catus", "2021-01-03", "29800", "B.1.1.7"},
	{"s5", "Homo sapiens", "2021-01-10", "29900", "AY.4"},
	{"s6", "Homo sapiens", "not-a-date", "29900", "B.1.1.7"},
	{"s7", "Homo sapiens", "2021-01-15", "29903", "B.1.1.7"},
}

func loadTestStore(t *testing.T, header []string, rows [][]string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.tsv.gz")
	require.NoError(t, tsv.WriteFile(path, header, rows))

	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Load(path))
	return s
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	s := loadTestStore(t, testHeader, testRows)
	assert.Equal(t, testHeader, s.Columns())
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.tsv.gz")
	require.NoError(t, tsv.WriteFile(path, []string{"isolate", "lineage"}, [][]string{{"s1", "B.1.1.7"}}))

	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	err = s.Load(path)
	var me *tsv.MissingReferenceDataError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, "host_scientific_name", me.Key)
}

func TestSelect_Lineage(t *testing.T) {
	s := loadTestStore(t, testHeader, testRows)

	sub, err := s.Select(Filter{Lineage: "B.1.1.7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s6", "s7"}, sub.Isolates())

	sub, err = s.Select(Filter{Lineage: "B.1.1.7", From: date(t, "2021-01-01"), To: date(t, "2021-01-07")})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, sub.Isolates())
	assert.Equal(t, testRows[1], sub.Rows[1], "values are kept verbatim")
}

func TestSelect_Windows(t *testing.T) {
	s := loadTestStore(t, testHeader, testRows)

	windows, err := Windows(date(t, "2021-01-01"), date(t, "2021-01-14"), 7)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "2021-01-01_2021-01-07", windows[0].Name())
	assert.Equal(t, "2021-01-08_2021-01-14", windows[1].Name())

	var got [][]string
	for _, w := range windows {
		sub, err := s.Select(Filter{From: w.Start, To: w.End})
		require.NoError(t, err)
		got = append(got, sub.Isolates())
	}
	assert.Equal(t, [][]string{{"s1", "s2"}, {"s5"}}, got)
}

func TestSelect_NoLengthColumn(t *testing.T) {
	header := []string{"isolate", "host_scientific_name", "sample_collection_date"}
	rows := [][]string{
		{"a", "Homo sapiens", "2021-02-01"},
		{"b", "Mustela lutreola", "2021-02-01"},
	}
	s := loadTestStore(t, header, rows)

	sub, err := s.Select(Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, sub.Isolates())

	_, err = s.Select(Filter{Lineage: "B.1.1.7"})
	var me *tsv.MissingReferenceDataError
	assert.True(t, errors.As(err, &me), "got %v", err)
}

func TestWindows(t *testing.T) {
	windows, err := Windows(date(t, "2021-03-01"), date(t, "2021-03-05"), 2)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, "2021-03-05_2021-03-11", windows[2].Name())

	_, err = Windows(date(t, "2021-03-01"), date(t, "2021-03-05"), 0)
	assert.Error(t, err)

	windows, err = Windows(date(t, "2021-03-05"), date(t, "2021-03-01"), 7)
	require.NoError(t, err)
	assert.Empty(t, windows)

	_, err = ParseDate("03/01/2021")
	assert.Error(t, err)
}

func TestSubset_Sample(t *testing.T) {
	sub := &Subset{Header: []string{"isolate"}}
	for i := 0; i < 10; i++ {
		sub.Rows = append(sub.Rows, []string{string(rune('a' + i))})
	}

	rng := rand.New(rand.NewPCG(1, 2))
	got := sub.Sample(4, rng)
	require.Len(t, got.Rows, 4)

	// Rows are distinct and in file order.
	ids := got.Isolates()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}

	assert.Same(t, sub, sub.Sample(0, rng))
	assert.Same(t, sub, sub.Sample(10, rng))

	again := sub.Sample(4, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, ids, again.Isolates(), "seeded sampling is repeatable")
}

func TestSubset_Write(t *testing.T) {
	dir := t.TempDir()
	sub := &Subset{Header: []string{"isolate", "lineage"}, Rows: [][]string{{"s1", "B.1.1.7"}, {"s2", "B.1.1.7"}}}

	out := Output{Dir: dir, Name: "B.1.1.7", Ext: ".tsv.gz"}
	require.NoError(t, sub.Write(out))

	ids, err := os.ReadFile(filepath.Join(dir, "B.1.1.7.txt"))
	require.NoError(t, err)
	assert.Equal(t, "s1\ns2\n", string(ids))

	table, err := tsv.Load(filepath.Join(dir, "B.1.1.7_Metadata.tsv.gz"))
	require.NoError(t, err)
	assert.Equal(t, sub.Header, table.Header)
	assert.Equal(t, sub.Rows, table.Rows)

	csv := Output{Dir: dir, Name: "2021-01-01_2021-01-07", Ext: ".csv.gz"}
	require.NoError(t, sub.Write(csv))
	assert.True(t, strings.HasSuffix(csv.MetadataPath(), "2021-01-01_2021-01-07_Metadata.csv.gz"))
	_, err = os.Stat(csv.MetadataPath())
	assert.NoError(t, err)
}
