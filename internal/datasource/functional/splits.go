package functional

import (
	"strings"

	"github.com/inodb/vibe-gvf/internal/tsv"
)

// Splits maps composite mutation names to their constituents.
type Splits struct {
	names []string            // composites in first-seen order
	into  map[string][]string // composite -> constituents
}

// LoadSplits reads a names-to-split TSV with "name" and "split_into"
// columns. Quotes and spaces are removed from split_into before it is split
// on commas. A repeated name takes the later row's constituents.
func LoadSplits(path string) (*Splits, error) {
	t, err := tsv.Load(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require("name", "split_into"); err != nil {
		return nil, err
	}

	s := &Splits{into: make(map[string][]string)}
	for _, row := range t.Rows {
		name := strings.TrimSpace(t.Value(row, "name"))
		if name == "" {
			continue
		}
		s.Add(name, ParseMembers(t.Value(row, "split_into")))
	}
	return s, nil
}

// NewSplits returns an empty split table.
func NewSplits() *Splits {
	return &Splits{into: make(map[string][]string)}
}

// Add registers a composite and its constituents.
func (s *Splits) Add(name string, constituents []string) {
	if _, ok := s.into[name]; !ok {
		s.names = append(s.names, name)
	}
	s.into[name] = constituents
}

// Lookup returns the constituents of a composite name.
func (s *Splits) Lookup(name string) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.into[name]
	return c, ok
}

// Names returns the composite names in first-seen order.
func (s *Splits) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of composites.
func (s *Splits) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// ParseMembers splits a quoted, comma-separated mutation list such as
// "'H69del', 'V70del'". Quotes and spaces are removed and empty or "nan"
// tokens dropped.
func ParseMembers(s string) []string {
	s = strings.NewReplacer("'", "", " ", "", "\"", "").Replace(s)
	var out []string
	for _, m := range strings.Split(s, ",") {
		if m == "" || m == "nan" {
			continue
		}
		out = append(out, m)
	}
	return out
}
