package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/accessioner/internal/catalog"
	"github.com/lehigh-university-libraries/accessioner/internal/cataloging"
	"github.com/lehigh-university-libraries/accessioner/internal/config"
	"github.com/lehigh-university-libraries/accessioner/internal/store"
)

// rootOptions carries global flags and the loaded configuration to
// subcommands.
type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "accessioner",
		Short: "Look up library copies by accession number and record where they are shelved",
		Long: `Accessioner loads a catalog export (CSV, TSV, XLSX or XLS), finds a copy by its
accession number, reports how many copies of the title the library holds, and
appends the copy with its rack location and ratings to an append-only CSV.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Log.Level
			if opts.verbose {
				level = "debug"
			}
			configureLogging(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newLookupCmd(opts))
	cmd.AddCommand(newSaveCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

func configureLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// newService builds the workflow service from configuration. A non-empty
// storePath overrides the configured store.
func (o *rootOptions) newService(storePath string) *cataloging.Service {
	if storePath == "" {
		storePath = o.cfg.Store.Path
	}
	return cataloging.NewService(
		store.New(storePath),
		cataloging.WithSchema(catalog.Schema{
			AccessionColumn: o.cfg.Catalog.AccessionColumn,
			TitleColumn:     o.cfg.Catalog.TitleColumn,
		}),
		cataloging.WithCanonicalKeys(o.cfg.Catalog.CanonicalKeys),
	)
}
