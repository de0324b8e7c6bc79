package gvf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// File is a parsed GVF file.
type File struct {
	Pragmas []string
	Records []*Record
}

// ReadFile reads a GVF file from disk. Gzipped input is detected.
func ReadFile(path string) (*File, error) {
	rc, err := tsv.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read parses GVF text. "##" pragmas are kept, other "#" lines are skipped.
func Read(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "##") {
			f.Pragmas = append(f.Pragmas, line)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		f.Records = append(f.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gvf: %w", err)
	}
	return f, nil
}

func parseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("expected 9 columns, found %d", len(fields))
	}
	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", fields[3])
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end %q", fields[4])
	}
	return &Record{
		Seqid:      fields[0],
		Source:     fields[1],
		Type:       fields[2],
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: DecodeAttributes(fields[8]),
	}, nil
}
