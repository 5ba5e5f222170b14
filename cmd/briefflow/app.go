package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/document"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/pipeline"
	"github.com/nguyentantai21042004/brief-flow/internal/summarizer"
	"github.com/nguyentantai21042004/brief-flow/internal/video"
	"github.com/nguyentantai21042004/brief-flow/internal/worker"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	pool      *worker.Pool
	exporters exporter.Registry
	pipeline  pipeline.Pipeline
}

// loadConfig reads .env (when present) and the configuration.
func loadConfig(requireKey bool) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	load := config.Load
	if !requireKey {
		load = config.LoadWithoutCredentials
	}
	cfg, err := load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newExportApp wires only what exporting needs.
func newExportApp() (*app, error) {
	return newBaseApp(loadConfig(false))
}

// newApp wires the full pipeline.
func newApp(ctx context.Context) (*app, error) {
	a, err := newBaseApp(loadConfig(true))
	if err != nil {
		return nil, err
	}

	sum, err := summarizer.New(ctx, a.cfg.Gemini, a.log)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	a.pool = worker.NewPool(a.cfg.Worker.PoolSize)
	a.pipeline = pipeline.New(
		video.New(a.cfg.Video, a.pool, a.log),
		document.New(a.log),
		sum,
		a.cfg.Normalize,
		a.log,
	)
	return a, nil
}

func newBaseApp(cfg *config.Config, err error) (*app, error) {
	if err != nil {
		return nil, err
	}
	exporters, err := exporter.NewRegistry(cfg.Export)
	if err != nil {
		return nil, fmt.Errorf("create exporters: %w", err)
	}
	return &app{
		cfg:       cfg,
		log:       logger.New(cfg.Logging.Level, cfg.Logging.Format),
		exporters: exporters,
	}, nil
}

// Close waits for background tasks.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
