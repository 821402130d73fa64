package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/accessioner/internal/annotation"
	"github.com/lehigh-university-libraries/accessioner/internal/report"
)

func newSaveCmd(opts *rootOptions) *cobra.Command {
	var datasetPath string
	var accessionNo string
	var storePath string
	var downloadPath string
	var a annotation.Annotation

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Annotate a copy with its rack location and ratings and append it to the store",
		Long: `Looks up the accession number, adds the copy count, rack location and both
ratings to every matching row, and appends the rows to the output store. The
store is created with a header on first use. Saving the same copy twice appends
it twice.`,
		Example: `  accessioner save --dataset books.csv --accession 123 \
    --rack A1 --student-rating 4 --teacher-rating 5

  # Also write the full updated store to a file
  accessioner save --dataset books.csv --accession 123 --rack A1 \
    --student-rating 4 --teacher-rating 5 --download updated.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Validate(); err != nil {
				return err
			}

			svc := opts.newService(storePath)

			t, err := svc.LoadDatasetFile(datasetPath)
			if err != nil {
				return err
			}

			m, err := svc.Lookup(t, accessionNo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.Write(out, m, "text"); err != nil {
				return err
			}

			result, err := svc.Save(cmd.Context(), m, a)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\n✅ Record saved to %s (%d row(s))\n", svc.Store().Path(), result.RowsWritten)

			if downloadPath != "" {
				if err := os.WriteFile(downloadPath, result.Download.Data, 0644); err != nil {
					return fmt.Errorf("failed to write download: %w", err)
				}
				fmt.Fprintf(out, "📥 Updated CSV written to %s\n", downloadPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to the catalog dataset (.csv, .tsv, .xlsx, .xls)")
	cmd.Flags().StringVar(&accessionNo, "accession", "", "Accession number to save")
	cmd.Flags().StringVar(&a.RackLocation, "rack", "", "Rack location")
	cmd.Flags().IntVar(&a.StudentRating, "student-rating", annotation.MinRating, "Student rating (1-5)")
	cmd.Flags().IntVar(&a.TeacherRating, "teacher-rating", annotation.MinRating, "Teacher rating (1-5)")
	cmd.Flags().StringVar(&storePath, "store", "", "Output store path (defaults to store.path from config)")
	cmd.Flags().StringVar(&downloadPath, "download", "", "Also write the full updated store to this file")
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("accession")

	return cmd
}
