package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/annotate"
	"github.com/inodb/vibe-gvf/internal/datasource/clades"
	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/datasource/sizestats"
	"github.com/inodb/vibe-gvf/internal/genes"
	"github.com/inodb/vibe-gvf/internal/gvf"
	"github.com/inodb/vibe-gvf/internal/tsv"
	"github.com/inodb/vibe-gvf/internal/vcf"
)

// LeftoverNamesFile is written next to the output GVF by vcf2gvf --names.
const LeftoverNamesFile = "leftover_names.tsv"

type vcf2gvfOptions struct {
	vcfFile        string
	functional     string
	clades         string
	cladeThreshold float64
	genePositions  string
	namesToSplit   string
	strain         string
	sizeStats      string
	outGVF         string
	names          bool
}

func newVCF2GVFCmd(a *app) *cobra.Command {
	var o vcf2gvfOptions
	cmd := &cobra.Command{
		Use:   "vcf2gvf",
		Short: "Convert an snpEff-annotated VCF to a functionally annotated GVF",
		Example: `  vibe-gvf vcf2gvf --vcffile B.1.1.7.sorted.vcf --gene_positions gene_positions.json \
    --functional_annotations functional_annotations.tsv --clades clades.tsv \
    --names_to_split names_to_split.tsv --strain B.1.1.7 --size_stats stats.tsv \
    --outgvf B.1.1.7.annotated.gvf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "vcffile", "gene_positions", "outgvf"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("clades_threshold") {
				th, err := parseThreshold(viper.Get("clades.threshold"))
				if err != nil {
					return &usageError{err}
				}
				o.cladeThreshold = th
			}
			return runVCF2GVF(a, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.vcfFile, "vcffile", "", "Path to an snpEff-annotated VCF file")
	f.StringVar(&o.functional, "functional_annotations", "", "TSV file of functional annotations")
	f.StringVar(&o.clades, "clades", "", "TSV file of WHO variant names and VOC/VOI status")
	f.Float64Var(&o.cladeThreshold, "clades_threshold", annotate.DefaultCladeThreshold, "Alternate frequency cutoff for clade-defining mutations")
	f.StringVar(&o.genePositions, "gene_positions", "", "Gene and protein positions in JSON format")
	f.StringVar(&o.namesToSplit, "names_to_split", "", "TSV of multi-aa mutation names to split into single-aa names")
	f.StringVar(&o.strain, "strain", annotate.NotAvailable, `Lineage of the VCF; "n/a" for user uploads`)
	f.StringVar(&o.sizeStats, "size_stats", "", "Sequence statistics file used for the sample size")
	f.StringVar(&o.outGVF, "outgvf", "", "Output GVF file")
	f.BoolVar(&o.names, "names", false, "Save mutation names without functional annotations to "+LeftoverNamesFile)
	return cmd
}

// parseThreshold converts a configured clades.threshold to a frequency.
func parseThreshold(v any) (float64, error) {
	th, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(th) || math.IsInf(th, 0) {
		return 0, fmt.Errorf("invalid clades.threshold %v: want a number", v)
	}
	return th, nil
}

func runVCF2GVF(a *app, o vcf2gvfOptions) error {
	pos, err := genes.LoadPositions(o.genePositions)
	if err != nil {
		return err
	}
	locator, err := genes.NewLocator(pos)
	if err != nil {
		return err
	}

	var sizes *sizestats.Table
	if o.sizeStats != "" {
		if sizes, err = sizestats.Load(o.sizeStats); err != nil {
			return err
		}
	}
	sampleSize, err := sizes.SampleSize(o.strain, o.vcfFile)
	if err != nil {
		return err
	}

	ann := annotate.NewAnnotator(locator, annotate.Options{
		Strain:         o.strain,
		CladeThreshold: o.cladeThreshold,
		SampleSize:     sampleSize,
	})
	ann.SetLogger(a.logger)

	if o.namesToSplit != "" {
		splits, err := functional.LoadSplits(o.namesToSplit)
		if err != nil {
			return err
		}
		ann.SetSplits(splits)
	}
	if o.functional != "" {
		fa, err := functional.Load(o.functional)
		if err != nil {
			return err
		}
		ann.SetFunctional(fa)
	}
	if o.clades != "" {
		ct, err := clades.Load(o.clades)
		if err != nil {
			return err
		}
		ann.SetClades(ct)
	}

	parser, err := vcf.NewParser(o.vcfFile)
	if err != nil {
		return err
	}
	defer parser.Close()

	res, err := ann.AnnotateAll(parser)
	if err != nil {
		return err
	}

	if err := gvf.WriteFile(o.outGVF, gvf.DefaultPragmas(viper.GetString("gvf.species")), res.Records); err != nil {
		return err
	}
	a.logger.Info("saved gvf", zap.String("path", o.outGVF), zap.Int("records", len(res.Records)))

	for _, nm := range res.NoMatches {
		a.logger.Debug("mutation group not covered by vcf",
			zap.Strings("group", nm.Group),
			zap.Strings("missing", nm.Missing),
			zap.Int("rows", nm.Rows))
	}
	a.logger.Info("unmatched mutation names",
		zap.Int("vcf_only", len(res.VCFOnly)),
		zap.Int("table_only", len(res.TableOnly)),
		zap.Int("dropped_groups", len(res.NoMatches)))

	if o.names {
		rows := make([][]string, len(res.VCFOnly))
		for i, name := range res.VCFOnly {
			rows[i] = []string{name, o.strain}
		}
		path := filepath.Join(filepath.Dir(o.outGVF), LeftoverNamesFile)
		if err := tsv.WriteFile(path, []string{"in_tsv_only", "strain"}, rows); err != nil {
			return err
		}
		a.logger.Info("mutation names not found in functional annotations saved", zap.String("path", path))
	}
	return nil
}
