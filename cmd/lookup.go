package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/accessioner/internal/report"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var datasetPath string
	var accessionNo string
	var format string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a copy by accession number and count copies of its title",
		Example: `  # Look up accession number 123 (searched as 000123)
  accessioner lookup --dataset books.csv --accession 123

  # Print the match as YAML
  accessioner lookup --dataset books.xlsx --accession 004512 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.newService("")

			t, err := svc.LoadDatasetFile(datasetPath)
			if err != nil {
				return err
			}

			m, err := svc.Lookup(t, accessionNo)
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), m, format)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the catalog dataset (.csv, .tsv, .xlsx, .xls)")
	cmd.Flags().StringVar(&accessionNo, "accession", "", "Accession number to look up")
	cmd.Flags().StringVar(&format, "format", "text", fmt.Sprintf("Output format (%s)", strings.Join(report.Formats, ", ")))
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("accession")

	return cmd
}
