// Package genes maps genome positions to gene and protein names and builds
// gene position tables from GFF3 annotations.
package genes

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// Region is a named, 1-based inclusive genome interval.
type Region struct {
	Key   string // table key, e.g. "S" or "nsp1"
	Name  string // display name, the key for genes
	Start int64
	End   int64
}

// Positions holds the gene and protein tables in file order.
type Positions struct {
	Genes    []Region
	Proteins []Region
}

type coordinates struct {
	From  *int64 `json:"from"`
	To    *int64 `json:"to"`
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
}

func (c *coordinates) bounds() (int64, int64, bool) {
	switch {
	case c == nil:
		return 0, 0, false
	case c.From != nil && c.To != nil:
		return *c.From, *c.To, true
	case c.Start != nil && c.End != nil:
		return *c.Start, *c.End, true
	}
	return 0, 0, false
}

type geneEntry struct {
	Coordinates *coordinates `json:"coordinates"`
}

type proteinEntry struct {
	Coordinates *coordinates `json:"g.coordinates"`
	Name        string       `json:"name"`
}

// LoadPositions reads a gene/protein position JSON file.
func LoadPositions(path string) (*Positions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gene positions: %w", err)
	}
	p, err := ParsePositions(data, path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ParsePositions decodes position JSON. source names the input in errors.
func ParsePositions(data []byte, source string) (*Positions, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	p := &Positions{}
	if raw, ok := top["genes"]; ok {
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s genes: %w", source, err)
		}
		var genes map[string]geneEntry
		if err := json.Unmarshal(raw, &genes); err != nil {
			return nil, fmt.Errorf("parse %s genes: %w", source, err)
		}
		for _, k := range keys {
			start, end, ok := genes[k].Coordinates.bounds()
			if !ok {
				return nil, &tsv.MissingReferenceDataError{Source: source, Key: "genes." + k + ".coordinates"}
			}
			p.Genes = append(p.Genes, Region{Key: k, Name: k, Start: start, End: end})
		}
	}

	if raw, ok := top["proteins"]; ok {
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s proteins: %w", source, err)
		}
		var proteins map[string]proteinEntry
		if err := json.Unmarshal(raw, &proteins); err != nil {
			return nil, fmt.Errorf("parse %s proteins: %w", source, err)
		}
		for _, k := range keys {
			e := proteins[k]
			start, end, ok := e.Coordinates.bounds()
			if !ok {
				return nil, &tsv.MissingReferenceDataError{Source: source, Key: "proteins." + k + ".g.coordinates"}
			}
			name := e.Name
			if name == "" {
				name = k
			}
			p.Proteins = append(p.Proteins, Region{Key: k, Name: name, Start: start, End: end})
		}
	}
	return p, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	entries, err := decodeOrdered(raw)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}
