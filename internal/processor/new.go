package processor

import (
	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/pipeline"
)

type implProcessor struct {
	cfg       config.WatchConfig
	pipeline  pipeline.Pipeline
	exporters exporter.Registry
	logger    logger.Logger
}

// New creates a Processor writing results to cfg.Output and archiving
// sources to cfg.Archived.
func New(cfg config.WatchConfig, p pipeline.Pipeline, exporters exporter.Registry, log logger.Logger) Processor {
	return &implProcessor{
		cfg:       cfg,
		pipeline:  p,
		exporters: exporters,
		logger:    log,
	}
}
