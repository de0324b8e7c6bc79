// Package vcf reads single-sample VCF files as written by freebayes and
// annotated by snpEff.
package vcf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Fixed VCF columns.
const (
	colChrom = iota
	colPos
	colID
	colRef
	colAlt
	colQual
	colFilter
	colInfo
	colFormat
	colSample

	minColumns = colInfo + 1
)

// maxLineSize bounds a single VCF line; snpEff EFF lists can be long.
const maxLineSize = 16 << 20

var gzipMagic = []byte{0x1f, 0x8b}

// Parser reads variants from a VCF stream. Lines starting with "##" are
// kept as meta lines, the "#CHROM" line names the samples, and every other
// non-empty line is a record.
type Parser struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
	header  []string
	samples []string
	pending string // first record, found while reading the header
}

// NewParser opens path, which may be gzip-compressed. A path of "-"
// reads standard input.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r, closers, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p := newParser(r)
	p.closers = append(closers, f)
	if err := p.readHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser over an uncompressed stream.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := newParser(r)
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func newParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Parser{scanner: sc}
}

// decompress wraps r in a gzip reader when the stream starts with the gzip
// magic number.
func decompress(r io.Reader) (io.Reader, []io.Closer, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("read vcf header: %w", err)
	}
	if !bytes.Equal(magic, gzipMagic) {
		return br, nil, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return zr, []io.Closer{zr}, nil
}

// scan returns the next line without its line ending.
func (p *Parser) scan() (string, bool, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("read vcf line %d: %w", p.line+1, err)
		}
		return "", false, nil
	}
	p.line++
	return strings.TrimRight(p.scanner.Text(), "\r"), true, nil
}

// readHeader consumes meta lines up to and including "#CHROM". Some
// pipelines strip the header, so the first record also ends it.
func (p *Parser) readHeader() error {
	for {
		line, ok, err := p.scan()
		if err != nil || !ok {
			return err
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#CHROM"):
			p.header = append(p.header, line)
			if fields := strings.Split(line, "\t"); len(fields) > colSample {
				p.samples = fields[colSample:]
			}
			return nil
		case strings.HasPrefix(line, "#"):
			p.header = append(p.header, line)
		default:
			p.pending = line
			return nil
		}
	}
}

// Next returns the next variant, or nil at the end of the stream.
func (p *Parser) Next() (*Variant, error) {
	if p.pending != "" {
		line := p.pending
		p.pending = ""
		return p.parseLine(line)
	}
	for {
		line, ok, err := p.scan()
		if err != nil || !ok {
			return nil, err
		}
		if line == "" || line[0] == '#' {
			continue
		}
		return p.parseLine(line)
	}
}

// ReadAll reads all remaining variants.
func (p *Parser) ReadAll() ([]*Variant, error) {
	var variants []*Variant
	for {
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return variants, nil
		}
		variants = append(variants, v)
	}
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minColumns {
		return nil, p.errorf("expected at least %d columns, found %d", minColumns, len(fields))
	}

	pos, err := strconv.ParseInt(fields[colPos], 10, 64)
	if err != nil || pos < 1 {
		return nil, p.errorf("invalid position: %s", fields[colPos])
	}
	if fields[colRef] == "" || fields[colAlt] == "" {
		return nil, p.errorf("empty REF or ALT allele")
	}

	var qual float64
	if q := fields[colQual]; q != "." {
		if qual, err = strconv.ParseFloat(q, 64); err != nil {
			return nil, p.errorf("invalid quality: %s", q)
		}
	}

	v := &Variant{
		Chrom:  fields[colChrom],
		Pos:    pos,
		ID:     fields[colID],
		Ref:    fields[colRef],
		Alt:    fields[colAlt],
		Qual:   qual,
		Filter: fields[colFilter],
		Info:   fields[colInfo],
	}
	if len(fields) > colFormat && fields[colFormat] != "" {
		v.Format = strings.Split(fields[colFormat], ":")
	}
	if len(fields) > colSample {
		v.Sample = strings.Split(fields[colSample], ":")
	}
	return v, nil
}

// Header returns the meta lines and the #CHROM line.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns the sample columns named on the #CHROM line.
func (p *Parser) SampleNames() []string {
	return p.samples
}

// LineNumber returns the number of lines read so far.
func (p *Parser) LineNumber() int {
	return p.line
}

// Close releases the decompressor and the underlying file.
func (p *Parser) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}

// ParseError is a malformed VCF record.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf line %d: %s", e.Line, e.Message)
}
