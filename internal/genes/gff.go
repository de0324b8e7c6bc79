package genes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// Palette is the colour cycle assigned to genes in file order.
var Palette = []string{
	"rgb(217, 173, 61)",
	"rgb(80, 151, 186)",
	"rgb(230, 112, 48)",
	"rgb(142, 188, 102)",
	"rgb(229, 150, 55)",
	"rgb(170, 189, 82)",
	"rgb(223, 67, 39)",
	"rgb(196, 185, 69)",
	"rgb(117, 182, 129)",
	"rgb(96, 170, 158)",
}

// gffFeature represents a parsed GFF3 line.
type gffFeature struct {
	seqid       string
	featureType string
	start       int64
	end         int64
	attributes  map[string]string
}

// GeneFeature is a gene read from a GFF3 file.
type GeneFeature struct {
	Name  string
	Start int64
	End   int64
}

// ReadGFFGenes returns the "gene" features of a GFF3 stream in file order.
// Pragmas and comments are skipped.
func ReadGFFGenes(r io.Reader) ([]GeneFeature, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var genes []GeneFeature
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Embedded FASTA ends the feature section.
		if strings.HasPrefix(line, ">") {
			break
		}

		feat, err := parseGFFLine(line)
		if err != nil {
			return nil, fmt.Errorf("gff line %d: %w", lineNum, err)
		}
		if feat.featureType != "gene" {
			continue
		}
		name := feat.attributes["Name"]
		if name == "" {
			return nil, &tsv.MissingReferenceDataError{
				Source: fmt.Sprintf("gff line %d", lineNum),
				Key:    "Name",
			}
		}
		genes = append(genes, GeneFeature{Name: name, Start: feat.start, End: feat.end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read gff: %w", err)
	}
	return genes, nil
}

func parseGFFLine(line string) (*gffFeature, error) {
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

	attrs := make(map[string]string)
	for _, seg := range strings.Split(fields[8], ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		attrs[k] = v
	}

	return &gffFeature{
		seqid:       fields[0],
		featureType: fields[2],
		start:       start,
		end:         end,
		attributes:  attrs,
	}, nil
}

type geneSpan struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type geneInfo struct {
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Coordinates geneSpan `json:"coordinates"`
}

// GeneTable builds the keyed gene table. Features sharing a name and start
// collapse into the first one; further features with a repeated name are
// keyed "<name>_repeat_<n>". Colours cycle through Palette in feature
// order, and a repeated name keeps the colour of its first occurrence.
func GeneTable(genes []GeneFeature) ([]string, map[string]geneInfo) {
	type nameStart struct {
		name  string
		start int64
	}
	seen := make(map[nameStart]bool)
	colorByName := make(map[string]string)
	repeats := make(map[string]int)

	var keys []string
	table := make(map[string]geneInfo)
	for i, g := range genes {
		color, ok := colorByName[g.Name]
		if !ok {
			color = Palette[i%len(Palette)]
			colorByName[g.Name] = color
		}

		ns := nameStart{g.Name, g.Start}
		if seen[ns] {
			continue
		}
		seen[ns] = true

		key := g.Name
		if n := repeats[g.Name]; n > 0 {
			key = fmt.Sprintf("%s_repeat_%d", g.Name, n)
		}
		repeats[g.Name]++

		keys = append(keys, key)
		table[key] = geneInfo{
			Name:        g.Name,
			Color:       color,
			Coordinates: geneSpan{Start: g.Start, End: g.End},
		}
	}
	return keys, table
}

// BuildPositionsJSON merges the GFF genes into the start document under a
// "genes" key. The start document keeps its key order; an existing "genes"
// member is replaced in place.
func BuildPositionsJSON(start []byte, genes []GeneFeature) ([]byte, error) {
	members, err := decodeOrdered(start)
	if err != nil {
		return nil, fmt.Errorf("parse start document: %w", err)
	}

	keys, table := GeneTable(genes)
	geneMembers := make([]member, len(keys))
	for i, k := range keys {
		v, err := json.Marshal(table[k])
		if err != nil {
			return nil, err
		}
		geneMembers[i] = member{Key: k, Value: v}
	}
	genesJSON, err := encodeOrdered(geneMembers)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range members {
		if members[i].Key == "genes" {
			members[i].Value = genesJSON
			replaced = true
		}
	}
	if !replaced {
		members = append(members, member{Key: "genes", Value: genesJSON})
	}
	return encodeOrdered(members)
}

// ConvertGFF reads gffPath and startPath and writes the merged position
// JSON to outPath.
func ConvertGFF(gffPath, startPath, outPath string) (int, error) {
	start, err := os.ReadFile(startPath)
	if err != nil {
		return 0, fmt.Errorf("read start document: %w", err)
	}

	rc, err := tsv.Open(gffPath)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	genes, err := ReadGFFGenes(rc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", gffPath, err)
	}

	out, err := BuildPositionsJSON(start, genes)
	if err != nil {
		return 0, err
	}
	if err := tsv.AtomicWrite(outPath, out); err != nil {
		return 0, err
	}
	return len(genes), nil
}
