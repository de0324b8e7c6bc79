package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/metadata"
)

// Grouping criteria for extract.
const (
	CriteriaLineage = "lineage"
	CriteriaTime    = "time"
)

type extractOptions struct {
	table        string
	criteria     string
	voc          string
	samplingSize int
	startDate    string
	endDate      string
	window       int
	outDir       string
	seed         uint64
	seeded       bool
}

func (o *extractOptions) addFlags(cmd *cobra.Command, defaultWindow int) {
	f := cmd.Flags()
	f.StringVar(&o.table, "table", "", "Gzipped tab-separated metadata table")
	f.IntVar(&o.samplingSize, "samplingsize", 0, "Rows to draw per subset; 0 keeps every row")
	f.StringVar(&o.startDate, "startdate", "", "First collection date (yyyy-mm-dd)")
	f.StringVar(&o.endDate, "enddate", "", "Last collection date (yyyy-mm-dd)")
	f.IntVar(&o.window, "window", defaultWindow, "Days between the starts of consecutive windows")
	f.StringVar(&o.outDir, "outdir", ".", "Directory for the output files")
	f.Uint64Var(&o.seed, "seed", 0, "Seed for --samplingsize; random when unset")
}

func (o *extractOptions) rng() *rand.Rand {
	if o.seeded {
		return rand.New(rand.NewPCG(o.seed, o.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// dateRange parses --startdate and --enddate; both or neither must be set.
func (o *extractOptions) dateRange() (from, to time.Time, err error) {
	if (o.startDate == "") != (o.endDate == "") {
		return from, to, &usageError{errors.New("--startdate and --enddate must be set together")}
	}
	if o.startDate == "" {
		return from, to, nil
	}
	if from, err = metadata.ParseDate(o.startDate); err != nil {
		return from, to, &usageError{err}
	}
	if to, err = metadata.ParseDate(o.endDate); err != nil {
		return from, to, &usageError{err}
	}
	return from, to, nil
}

func newExtractCmd(a *app) *cobra.Command {
	var o extractOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract metadata subsets by lineage or collection-date window",
		Example: `  vibe-gvf extract --table metadata.tsv.gz --criteria lineage --voc B.1.1.7
  vibe-gvf extract --table metadata.tsv.gz --criteria time \
    --startdate 2021-01-01 --enddate 2021-03-01 --window 7 --samplingsize 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "table"); err != nil {
				return err
			}
			o.seeded = cmd.Flags().Changed("seed")
			from, to, err := o.dateRange()
			if err != nil {
				return err
			}
			switch o.criteria {
			case CriteriaLineage:
				if err := requireFlags(cmd, "voc"); err != nil {
					return err
				}
				return runExtractLineage(a, o, from, to)
			case CriteriaTime:
				if from.IsZero() {
					return &usageError{errors.New("--criteria time requires --startdate and --enddate")}
				}
				return runWindows(a, o, from, to, ".tsv.gz")
			default:
				return &usageError{fmt.Errorf("unknown criteria %q: expected %s or %s", o.criteria, CriteriaLineage, CriteriaTime)}
			}
		},
	}
	o.addFlags(cmd, metadata.WindowSpan)
	cmd.Flags().StringVar(&o.criteria, "criteria", CriteriaLineage, "Grouping criteria: lineage or time")
	cmd.Flags().StringVar(&o.voc, "voc", "", "Lineage to extract, e.g. B.1.1.7")
	return cmd
}

func newTimeseriesCmd(a *app) *cobra.Command {
	var o extractOptions
	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Extract metadata subsets for consecutive collection-date windows",
		Example: `  vibe-gvf timeseries --table metadata.tsv.gz \
    --startdate 2021-01-01 --enddate 2021-03-01 --window 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "table", "startdate", "enddate"); err != nil {
				return err
			}
			o.seeded = cmd.Flags().Changed("seed")
			from, to, err := o.dateRange()
			if err != nil {
				return err
			}
			return runWindows(a, o, from, to, ".csv.gz")
		},
	}
	o.addFlags(cmd, metadata.WindowSpan)
	return cmd
}

func openMetadata(a *app, o extractOptions) (*metadata.Store, error) {
	if err := os.MkdirAll(o.outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if _, err := os.Stat(o.table); err != nil {
		return nil, fmt.Errorf("metadata table: %w", err)
	}
	store, err := metadata.Open("")
	if err != nil {
		return nil, err
	}
	store.SetLogger(a.logger)
	if err := store.Load(o.table); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func runExtractLineage(a *app, o extractOptions, from, to time.Time) error {
	store, err := openMetadata(a, o)
	if err != nil {
		return err
	}
	defer store.Close()

	sub, err := store.Select(metadata.Filter{Lineage: o.voc, From: from, To: to})
	if err != nil {
		return err
	}
	sub = sub.Sample(o.samplingSize, o.rng())

	out := metadata.Output{Dir: o.outDir, Name: o.voc, Ext: ".tsv.gz"}
	if err := sub.Write(out); err != nil {
		return err
	}
	a.logger.Info("extracted lineage", zap.String("lineage", o.voc),
		zap.Int("rows", len(sub.Rows)), zap.String("path", out.MetadataPath()))
	return nil
}

func runWindows(a *app, o extractOptions, from, to time.Time, ext string) error {
	windows, err := metadata.Windows(from, to, o.window)
	if err != nil {
		return &usageError{err}
	}

	store, err := openMetadata(a, o)
	if err != nil {
		return err
	}
	defer store.Close()

	rng := o.rng()
	for _, w := range windows {
		sub, err := store.Select(metadata.Filter{From: w.Start, To: w.End})
		if err != nil {
			return err
		}
		sub = sub.Sample(o.samplingSize, rng)

		out := metadata.Output{Dir: o.outDir, Name: w.Name(), Ext: ext}
		if err := sub.Write(out); err != nil {
			return err
		}
		a.logger.Info("extracted window", zap.String("window", w.Name()), zap.Int("rows", len(sub.Rows)))
	}
	return nil
}
