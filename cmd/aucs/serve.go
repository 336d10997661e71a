package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/akerscore/aucs/internal/httpapi"
	"github.com/akerscore/aucs/internal/manifest"
	"github.com/akerscore/aucs/internal/metrics"
)

func newServeCommand() *cobra.Command {
	cfg := httpapi.DefaultConfig()
	var manifestDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ops HTTP surface: /healthz, /manifest, /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := metrics.New()
			manifestSource := func() (*manifest.Manifest, error) {
				return manifest.NewIO(manifestDir + "/manifest.json").Load()
			}

			server, err := httpapi.NewServer(cfg, reg, manifestSource)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				log.Info().Msg("shutting down http server")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	cmd.Flags().StringVar(&manifestDir, "manifest-dir", "", "output directory whose manifest.json is served at /manifest")
	cmd.MarkFlagRequired("manifest-dir")

	return cmd
}
