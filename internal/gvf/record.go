// Package gvf models Genome Variation Format records and reads and writes
// GVF files.
package gvf

import (
	"strconv"
	"strings"
)

// Attributes is an ordered attribute bag with unique keys.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes returns an empty attribute bag.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set assigns a value. An existing key keeps its position.
func (a *Attributes) Set(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value for key.
func (a *Attributes) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (a *Attributes) Value(key string) string {
	return a.values[key]
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.keys)
}

// Clone returns an independent copy.
func (a *Attributes) Clone() *Attributes {
	c := &Attributes{
		keys:   make([]string, len(a.keys)),
		values: make(map[string]string, len(a.values)),
	}
	copy(c.keys, a.keys)
	for k, v := range a.values {
		c.values[k] = v
	}
	return c
}

// Record is one GVF feature line.
type Record struct {
	Seqid  string
	Source string
	Type   string
	Start  int64
	End    int64
	Score  string
	Strand string
	Phase  string

	Attributes *Attributes
}

// NewRecord returns a record with empty attributes and "." placeholders.
func NewRecord(seqid, typ string, start, end int64) *Record {
	return &Record{
		Seqid:      seqid,
		Source:     ".",
		Type:       typ,
		Start:      start,
		End:        end,
		Score:      ".",
		Strand:     "+",
		Phase:      ".",
		Attributes: NewAttributes(),
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Attributes = r.Attributes.Clone()
	return &c
}

// Columns returns the nine tab-separated fields. The attribute column uses
// the canonical key order.
func (r *Record) Columns() []string {
	return []string{
		r.Seqid,
		r.Source,
		r.Type,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Score,
		r.Strand,
		r.Phase,
		EncodeAttributes(r.Attributes),
	}
}

// AttributeOrder is the canonical order of known attribute keys. Keys not
// listed follow in insertion order.
var AttributeOrder = []string{
	"ID",
	"Name",
	"chrom_region",
	"protein",
	"sample_size",
	"ro",
	"ao",
	"dp",
	"Reference_seq",
	"Variant_seq",
	"clade_defining",
	"nt_name",
	"aa_name",
	"vcf_gene",
	"mutation_type",
	"viral_lineage",
	"multi_aa_name",
	"multiaa_comb_mutation",
	"alternate_frequency",
	"ps_filter",
	"ps_exc",
	"mat_pep_id",
	"mat_pep_desc",
	"mat_pep_acc",
	"function_category",
	"source",
	"citation",
	"comb_mutation",
	"function_description",
	"heterozygosity",
	"variant",
	"variant_type",
	"voi_designation_date",
	"voc_designation_date",
	"vum_designation_date",
	"status",
}

var attributeRank = func() map[string]int {
	m := make(map[string]int, len(AttributeOrder))
	for i, k := range AttributeOrder {
		m[k] = i
	}
	return m
}()

// EncodeAttributes renders the bag as "key=value;" pairs.
func EncodeAttributes(a *Attributes) string {
	var sb strings.Builder
	write := func(k string) {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(a.values[k])
		sb.WriteByte(';')
	}
	for _, k := range AttributeOrder {
		if _, ok := a.values[k]; ok {
			write(k)
		}
	}
	for _, k := range a.keys {
		if _, known := attributeRank[k]; !known {
			write(k)
		}
	}
	return sb.String()
}

// DecodeAttributes parses a "key=value;" attribute column. Segments without
// "=" are kept with an empty value.
func DecodeAttributes(s string) *Attributes {
	a := NewAttributes()
	for _, seg := range strings.Split(s, ";") {
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		a.Set(k, v)
	}
	return a
}
