// Package tsv reads and writes the tab-separated reference tables used by
// the GVF conversion tools. Gzip-compressed inputs are detected by their
// magic bytes.
package tsv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// MissingReferenceDataError reports a reference table or JSON document that
// lacks a column or key the caller needs.
type MissingReferenceDataError struct {
	Source string // file path or table name
	Key    string // missing column or key
}

func (e *MissingReferenceDataError) Error() string {
	return fmt.Sprintf("%s: missing %q", e.Source, e.Key)
}

// Table is a fully loaded tab-separated table with a header row.
// Every row has exactly len(Header) cells; short rows are padded with "".
type Table struct {
	Source string
	Header []string
	Rows   [][]string

	index map[string]int
}

// Options controls how a table is split into cells.
type Options struct {
	// Whitespace splits on runs of spaces and tabs instead of single tabs.
	Whitespace bool
	// Comment skips lines starting with this prefix. Empty disables.
	Comment string
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, transparently decompressing gzip content.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create gzip reader for %s: %w", path, err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
	}

	return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
}

// Load reads a tab-separated table with a header row from path.
func Load(path string) (*Table, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions reads a table from path using opts.
func LoadWithOptions(path string, opts Options) (*Table, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := Read(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// Read parses a table with a header row from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	t := &Table{}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if opts.Comment != "" && strings.HasPrefix(line, opts.Comment) {
			continue
		}

		fields := splitLine(line, opts.Whitespace)
		if t.Header == nil {
			t.Header = fields
			continue
		}
		t.Rows = append(t.Rows, fit(fields, len(t.Header)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if t.Header == nil {
		return nil, fmt.Errorf("empty table")
	}
	t.buildIndex()
	return t, nil
}

// New builds a table from a header and rows. Rows are padded or truncated
// to the header length.
func New(source string, header []string, rows [][]string) *Table {
	t := &Table{Source: source, Header: header}
	for _, fields := range rows {
		t.Rows = append(t.Rows, fit(fields, len(header)))
	}
	t.buildIndex()
	return t
}

func fit(fields []string, n int) []string {
	if len(fields) < n {
		padded := make([]string, n)
		copy(padded, fields)
		return padded
	}
	return fields[:n]
}

func splitLine(line string, whitespace bool) []string {
	if whitespace {
		return strings.Fields(line)
	}
	return strings.Split(line, "\t")
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, col := range t.Header {
		name := strings.TrimSpace(col)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, &MissingReferenceDataError{Source: t.source(), Key: name}
	}
	return i, nil
}

// Require checks that all named columns are present.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if _, err := t.Column(name); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the cell of row in the named column, or "" if the column
// does not exist.
func (t *Table) Value(row []string, name string) string {
	i, ok := t.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *Table) source() string {
	if t.Source == "" {
		return "table"
	}
	return t.Source
}

// Write writes header and rows as tab-separated lines. Cells are written
// verbatim; no quoting is applied.
func Write(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)
	if header != nil {
		if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes a table to path, gzip-compressing when path ends in .gz.
// The file is written to a temporary name first and renamed on success.
func WriteFile(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(&buf)
		if err := Write(gz, header, rows); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("compress %s: %w", path, err)
		}
	} else if err := Write(&buf, header, rows); err != nil {
		return err
	}
	return AtomicWrite(path, buf.Bytes())
}

// AtomicWrite writes data to path through a temporary file, so readers never
// observe a partially written file.
func AtomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
