package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/accessioner/internal/handlers"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int
	var storePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the accession lookup API",
		Long: `Starts the accession lookup HTTP API.

Upload a dataset to /api/datasets, look up copies under
/api/sessions/{id}/records/{accession}, save annotations with POST
.../records/{accession}/save and download the whole store from /api/export.`,
		Example: `  # Start server on the configured port (default 8888)
  accessioner serve

  # Start server on custom port with a separate store
  accessioner serve --port 3000 --store /srv/library/records.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = opts.cfg.Server.Port
			}

			svc := opts.newService(storePath)
			handler := handlers.New(svc, int64(opts.cfg.Server.MaxUploadMB)*1024*1024)

			addr := ":" + strconv.Itoa(port)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Accessioner API available", "addr", addr, "url", "http://localhost"+addr, "store", svc.Store().Path())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8888, "Port to listen on (defaults to server.port from config)")
	cmd.Flags().StringVar(&storePath, "store", "", "Output store path (defaults to store.path from config)")

	return cmd
}
