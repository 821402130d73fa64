package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var storePath string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole output store as CSV or parquet",
		Example: `  # Print the store as CSV
  accessioner export

  # Snapshot the store as parquet
  accessioner export --format parquet --output records.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.newService(storePath)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				download, err := svc.Export(cmd.Context())
				if err != nil {
					return err
				}
				_, err = w.Write(download.Data)
				return err
			case "parquet":
				n, err := svc.Store().WriteParquet(cmd.Context(), w)
				if err != nil {
					return err
				}
				slog.Info("Parquet snapshot written", "rows", n, "output", output)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (supported: csv, parquet)", format)
			}
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "Output store path (defaults to store.path from config)")
	cmd.Flags().StringVar(&format, "format", "csv", "Export format (csv, parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")

	return cmd
}
