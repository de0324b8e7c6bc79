package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gvf/internal/genes"
)

func newGFF2JSONCmd(a *app) *cobra.Command {
	var gffFile, startDict, saveFile string
	cmd := &cobra.Command{
		Use:   "gff2json",
		Short: "Add GFF3 gene coordinates to a gene position JSON document",
		Example: `  vibe-gvf gff2json --gff_file MN908947.3.gff3 --start_dict start.json \
    --savefile gene_positions.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "gff_file", "start_dict", "savefile"); err != nil {
				return err
			}
			n, err := genes.ConvertGFF(gffFile, startDict, saveFile)
			if err != nil {
				return err
			}
			a.logger.Info("saved gene positions", zap.String("path", saveFile), zap.Int("genes", n))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&gffFile, "gff_file", "", "GFF3 genome annotation")
	f.StringVar(&startDict, "start_dict", "", "JSON document to add gene coordinates to")
	f.StringVar(&saveFile, "savefile", "", "Output JSON file")
	return cmd
}
