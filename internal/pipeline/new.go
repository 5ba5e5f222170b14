package pipeline

import (
	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/document"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/summarizer"
	"github.com/nguyentantai21042004/brief-flow/internal/video"
)

type implPipeline struct {
	videos     video.Extractor
	documents  document.Extractor
	summarizer summarizer.Summarizer
	maxLength  int
	logger     logger.Logger
}

// New creates a Pipeline from its stages.
func New(
	videos video.Extractor,
	documents document.Extractor,
	sum summarizer.Summarizer,
	cfg config.NormalizeConfig,
	log logger.Logger,
) Pipeline {
	return &implPipeline{
		videos:     videos,
		documents:  documents,
		summarizer: sum,
		maxLength:  cfg.MaxLength,
		logger:     log,
	}
}
