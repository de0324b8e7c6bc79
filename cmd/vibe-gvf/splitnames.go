package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/annotate"
	"github.com/inodb/vibe-gvf/internal/datasource/functional"
	"github.com/inodb/vibe-gvf/internal/gvf"
	"github.com/inodb/vibe-gvf/internal/tsv"
)

type splitNamesOptions struct {
	inGVF        string
	outGVF       string
	functional   string
	outFunctions string
	namesToSplit string
}

func newSplitNamesCmd(a *app) *cobra.Command {
	var o splitNamesOptions
	cmd := &cobra.Command{
		Use:   "splitnames",
		Short: "Split composite mutation names in a GVF and a functional annotation table",
		Example: `  vibe-gvf splitnames --names_to_split names_to_split.tsv \
    --ingvf B.1.1.7.annotated.gvf --outgvf B.1.1.7.split.gvf \
    --functional_annotations functional_annotations.tsv --out_functions functional_split.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "names_to_split"); err != nil {
				return err
			}
			if o.inGVF == "" && o.functional == "" {
				return &usageError{errors.New("nothing to do: set --ingvf or --functional_annotations")}
			}
			if o.inGVF != "" {
				if err := requireFlags(cmd, "outgvf"); err != nil {
					return err
				}
			}
			if o.functional != "" {
				if err := requireFlags(cmd, "out_functions"); err != nil {
					return err
				}
			}
			return runSplitNames(a, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.inGVF, "ingvf", "", "GVF file written by vcf2gvf")
	f.StringVar(&o.outGVF, "outgvf", "", "Output GVF file")
	f.StringVar(&o.functional, "functional_annotations", "", "TSV file of functional annotations")
	f.StringVar(&o.outFunctions, "out_functions", "", "Output functional annotations file")
	f.StringVar(&o.namesToSplit, "names_to_split", "", "TSV of multi-aa mutation names to split into single-aa names")
	return cmd
}

func runSplitNames(a *app, o splitNamesOptions) error {
	splits, err := functional.LoadSplits(o.namesToSplit)
	if err != nil {
		return err
	}

	if o.inGVF != "" {
		file, err := gvf.ReadFile(o.inGVF)
		if err != nil {
			return err
		}
		records := annotate.SplitNames(file.Records, splits)
		annotate.AssignIDsByName(records)
		if err := gvf.WriteFile(o.outGVF, file.Pragmas, records); err != nil {
			return err
		}
		a.logger.Info("saved gvf", zap.String("path", o.outGVF),
			zap.Int("records_in", len(file.Records)), zap.Int("records_out", len(records)))
	}

	if o.functional != "" {
		t, err := tsv.Load(o.functional)
		if err != nil {
			return err
		}
		out, err := functional.SplitCompositeNames(t, splits)
		if err != nil {
			return err
		}
		if err := tsv.WriteFile(o.outFunctions, out.Header, out.Rows); err != nil {
			return err
		}
		a.logger.Info("saved functional annotations", zap.String("path", o.outFunctions),
			zap.Int("rows_in", len(t.Rows)), zap.Int("rows_out", len(out.Rows)))
	}
	return nil
}
