// Package annotate converts snpEff-annotated VCF variants into GVF records
// and attaches functional and clade annotations.
package annotate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/datasource/clades"
	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/gvf"
	"github.com/inodb/vibe-gvf/internal/vcf"
)

// NotAvailable marks attributes with no value for the run.
const NotAvailable = "n/a"

// DefaultCladeThreshold is the alternate frequency above which a mutation
// is clade-defining.
const DefaultCladeThreshold = 0.75

// GeneLocator defines the interface for naming the region at a position.
type GeneLocator interface {
	Locate(pos int64) (gene, protein string)
}

// VariantReader yields variants until it returns nil, nil.
type VariantReader interface {
	Next() (*vcf.Variant, error)
}

// Options configures a run.
type Options struct {
	Strain         string  // lineage of the VCF, "n/a" for user uploads
	CladeThreshold float64 // clade-defining alternate frequency cutoff
	SampleSize     string  // genomes behind the VCF, "n/a" if unknown
}

// INFO tags copied to GVF attributes when a variant carries them.
var passthroughTags = []string{"ps_filter", "ps_exc", "mat_pep_id", "mat_pep_desc", "mat_pep_acc"}

// Annotator builds annotated GVF records from variants.
type Annotator struct {
	locator    GeneLocator
	splits     *functional.Splits
	functional *functional.Annotations
	clades     *clades.Table
	opts       Options
	logger     *zap.Logger
}

// NewAnnotator creates an annotator that names regions with locator.
func NewAnnotator(locator GeneLocator, opts Options) *Annotator {
	if opts.Strain == "" {
		opts.Strain = NotAvailable
	}
	if opts.SampleSize == "" {
		opts.SampleSize = NotAvailable
	}
	return &Annotator{
		locator: locator,
		opts:    opts,
		logger:  zap.NewNop(),
	}
}

// SetSplits sets the composite-name split table.
func (a *Annotator) SetSplits(s *functional.Splits) {
	a.splits = s
}

// SetFunctional sets the functional annotation table.
func (a *Annotator) SetFunctional(f *functional.Annotations) {
	a.functional = f
}

// SetClades sets the clade designation table.
func (a *Annotator) SetClades(c *clades.Table) {
	a.clades = c
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate converts a single variant into one record per kept EFF entry.
// Functional and clade attributes are added by AnnotateAll.
func (a *Annotator) Annotate(v *vcf.Variant) ([]*gvf.Record, error) {
	info, err := vcf.DecodeInfo(v.Info)
	if err != nil {
		return nil, err
	}

	ro, _ := v.SampleValue("RO")
	ao, _ := v.SampleValue("AO")
	dp, ok := info.Get("dp")
	if !ok {
		dp, _ = v.SampleValue("DP")
	}
	af, err := AlternateFrequency(ao, dp)
	if err != nil {
		return nil, err
	}

	typ, ok := info.Get("type")
	if !ok || typ == "" {
		typ = v.VariantType()
	}
	gene, protein := a.locator.Locate(v.Pos)

	records := make([]*gvf.Record, 0, len(info.Effects))
	for _, e := range info.Effects {
		name := NameEffect(v, e)

		r := gvf.NewRecord(v.Chrom, typ, v.Pos, v.Pos)
		attrs := r.Attributes
		attrs.Set("Name", name.Name)
		attrs.Set("chrom_region", gene)
		attrs.Set("protein", protein)
		attrs.Set("sample_size", a.opts.SampleSize)
		attrs.Set("ro", ro)
		attrs.Set("ao", ao)
		attrs.Set("dp", dp)
		attrs.Set("Reference_seq", v.Ref)
		attrs.Set("Variant_seq", v.Alt)
		attrs.Set("clade_defining", CladeDefining(af, a.opts.CladeThreshold, a.opts.SampleSize))
		attrs.Set("nt_name", name.HGVSNucleotide)
		attrs.Set("aa_name", name.HGVSProtein)
		attrs.Set("vcf_gene", name.Gene)
		attrs.Set("mutation_type", e.FunctionalClass)
		attrs.Set("viral_lineage", a.opts.Strain)
		attrs.Set("multi_aa_name", "")
		attrs.Set("multiaa_comb_mutation", "")
		attrs.Set("alternate_frequency", FormatFrequency(af))
		for _, tag := range passthroughTags {
			if val, ok := info.Get(tag); ok {
				attrs.Set(tag, val)
			}
		}
		records = append(records, r)
	}
	return records, nil
}

// Result is the outcome of annotating one VCF.
type Result struct {
	Records   []*gvf.Record
	Variants  int       // variants read
	NoMatches []NoMatch // mutation groups dropped for missing members
	VCFOnly   []string  // VCF mutation names absent from the functional table
	TableOnly []string  // functional table names absent from the VCF
}

// AnnotateAll reads every variant, splits composite names, joins the
// functional table and applies the clade designation of the run's strain.
// Any variant error aborts the run.
func (a *Annotator) AnnotateAll(parser VariantReader) (*Result, error) {
	res := &Result{}
	var records []*gvf.Record
	for {
		v, err := parser.Next()
		if err != nil {
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			break
		}
		res.Variants++

		recs, err := a.Annotate(v)
		if err != nil {
			return nil, fmt.Errorf("annotate %s:%d: %w", v.Chrom, v.Pos, err)
		}
		records = append(records, recs...)
	}

	if res.Variants == 0 {
		a.logger.Info("0 variants processed")
	}

	records = SplitNames(records, a.splits)

	fa := a.functional
	if fa == nil {
		fa = functional.New(nil)
	}
	joined := Join(records, fa)
	res.Records = joined.Records
	res.NoMatches = joined.NoMatches
	res.VCFOnly = joined.VCFOnly
	res.TableOnly = joined.TableOnly

	d, found := a.clades.Match(a.opts.Strain)
	if !found && a.opts.Strain != NotAvailable {
		a.logger.Warn("lineage matches no clade designation", zap.String("strain", a.opts.Strain))
	}
	ApplyDesignation(res.Records, d)

	a.logger.Info("annotated variants",
		zap.Int("variants", res.Variants),
		zap.Int("records", len(res.Records)),
		zap.Int("dropped_groups", len(res.NoMatches)),
		zap.String("variant", d.Variant))
	return res, nil
}

// ApplyDesignation sets the clade designation attributes on every record.
func ApplyDesignation(records []*gvf.Record, d clades.Designation) {
	for _, r := range records {
		for _, attr := range d.Attributes() {
			r.Attributes.Set(attr.Key, attr.Value)
		}
	}
}
