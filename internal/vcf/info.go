package vcf

import (
	"fmt"
	"strings"
)

// MalformedInfoError reports an INFO segment that cannot be split into a tag
// and a value.
type MalformedInfoError struct {
	Segment string
	Reason  string
}

func (e *MalformedInfoError) Error() string {
	return fmt.Sprintf("malformed INFO segment %q: %s", e.Segment, e.Reason)
}

// bareTags are tags that annotation pipelines emit without "=value". They
// decode as present with an empty value.
var bareTags = map[string]bool{
	"ps_filter":    true,
	"ps_exc":       true,
	"mat_pep_id":   true,
	"mat_pep_desc": true,
	"mat_pep_acc":  true,
}

type infoEntry struct {
	name  string // tag as written
	value string
	bare  bool
}

// Info is a decoded INFO column. Tag lookups are case-insensitive.
type Info struct {
	entries []infoEntry
	index   map[string]int // lower-cased tag -> entries index

	// Effects holds the EFF entries kept by SelectEffects.
	Effects []Effect
}

// DecodeInfo splits a raw INFO string into tags and decodes the EFF
// sub-field. Every variant keeps at least one effect; a missing EFF tag is
// an error.
func DecodeInfo(raw string) (*Info, error) {
	info, err := decodeTags(raw)
	if err != nil {
		return nil, err
	}

	eff, ok := info.Get("eff")
	if !ok || eff == "" {
		return nil, &MalformedInfoError{Segment: raw, Reason: "no EFF annotation"}
	}
	effects, err := ParseEffects(eff)
	if err != nil {
		return nil, err
	}
	info.Effects = SelectEffects(effects)
	return info, nil
}

// decodeTags parses the tag=value pairs without interpreting EFF.
func decodeTags(raw string) (*Info, error) {
	info := &Info{index: make(map[string]int)}
	if raw == "." || raw == "" {
		return info, nil
	}

	for _, seg := range strings.Split(raw, ";") {
		if seg == "" {
			continue
		}

		name, value, hasValue := strings.Cut(seg, "=")
		if !validTag(name) {
			return nil, &MalformedInfoError{Segment: seg, Reason: "invalid tag name"}
		}
		key := strings.ToLower(name)
		if !hasValue && !bareTags[key] && !validFlag(name) {
			return nil, &MalformedInfoError{Segment: seg, Reason: "tag without value"}
		}
		if value == "n/a" {
			value = ""
		}

		entry := infoEntry{name: name, value: value, bare: !hasValue}
		if i, dup := info.index[key]; dup {
			info.entries[i] = entry
			continue
		}
		info.index[key] = len(info.entries)
		info.entries = append(info.entries, entry)
	}
	return info, nil
}

func validTag(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '.', r == '+', r == '-':
		default:
			return false
		}
	}
	return true
}

// validFlag accepts VCF Flag-type tags written in the upper-case INFO ID
// style, e.g. INDEL or LOF. Other bare tags must be listed in bareTags.
func validFlag(name string) bool {
	if c := name[0]; c < 'A' || c > 'Z' {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// Get returns the value of a tag. Bare tags return "" and true.
func (i *Info) Get(tag string) (string, bool) {
	idx, ok := i.index[strings.ToLower(tag)]
	if !ok {
		return "", false
	}
	return i.entries[idx].value, true
}

// Has reports whether the tag is present.
func (i *Info) Has(tag string) bool {
	_, ok := i.index[strings.ToLower(tag)]
	return ok
}

// Tags returns the lower-cased tag names in the order they appeared.
func (i *Info) Tags() []string {
	tags := make([]string, len(i.entries))
	for j, e := range i.entries {
		tags[j] = strings.ToLower(e.name)
	}
	return tags
}

// Encode renders the tags back into INFO syntax in their original order and
// spelling.
func (i *Info) Encode() string {
	var sb strings.Builder
	for j, e := range i.entries {
		if j > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(e.name)
		if !e.bare {
			sb.WriteByte('=')
			sb.WriteString(e.value)
		}
	}
	return sb.String()
}
