package main

import (
	"runtime"

	"github.com/nguyentantai21042004/brief-flow/internal/httpapi"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summarize and download HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagAddr != "" {
		a.cfg.Server.Addr = flagAddr
	}

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "brief-flow API")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.log.Info(ctx, "Model: %s", a.cfg.Gemini.Model)
	a.log.Info(ctx, "Worker pool: %d", a.cfg.Worker.PoolSize)
	a.log.Info(ctx, "Upload limit: %d MiB", a.cfg.Server.MaxUploadBytes>>20)

	srv := httpapi.New(a.cfg.Server, a.pipeline, a.exporters, a.log)
	if err := srv.Run(ctx); err != nil {
		return err
	}

	a.log.Info(ctx, "brief-flow API stopped")
	return nil
}
