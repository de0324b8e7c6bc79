package gvf

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// DefaultSpecies is the NCBI taxonomy URI for SARS-CoV-2.
const DefaultSpecies = "NCBI_Taxonomy_URI=http://www.ncbi.nlm.nih.gov/Taxonomy/Browser/wwwtax.cgi?id=2697049"

// DefaultPragmas returns the pragma lines written at the top of every GVF.
func DefaultPragmas(species string) []string {
	if species == "" {
		species = DefaultSpecies
	}
	return []string{
		"##gff-version 3",
		"##gvf-version 1.10",
		"##species " + species,
	}
}

// Writer writes GVF records.
type Writer struct {
	w       *bufio.Writer
	pragmas []string
}

// NewWriter creates a GVF writer that emits the given pragma lines first.
func NewWriter(w io.Writer, pragmas []string) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		pragmas: pragmas,
	}
}

// WriteHeader writes the pragma lines.
func (gw *Writer) WriteHeader() error {
	for _, p := range gw.pragmas {
		if _, err := gw.w.WriteString(p + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes a single record.
func (gw *Writer) Write(r *Record) error {
	_, err := gw.w.WriteString(strings.Join(r.Columns(), "\t") + "\n")
	return err
}

// Flush flushes any buffered data.
func (gw *Writer) Flush() error {
	return gw.w.Flush()
}

// WriteFile writes pragmas and records to path. The file only appears once
// it is complete.
func WriteFile(path string, pragmas []string, records []*Record) error {
	var buf bytes.Buffer
	gw := NewWriter(&buf, pragmas)
	if err := gw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range records {
		if err := gw.Write(r); err != nil {
			return err
		}
	}
	if err := gw.Flush(); err != nil {
		return err
	}
	return tsv.AtomicWrite(path, buf.Bytes())
}
