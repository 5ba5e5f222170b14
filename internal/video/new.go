package video

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/retry"
	"github.com/nguyentantai21042004/brief-flow/internal/worker"
)

const (
	defaultBaseURL    = "https://www.youtube.com"
	defaultThumbHost  = "https://i.ytimg.com"
	userAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	maxWatchPageBytes = 6 << 20
	maxTimedTextBytes = 2 << 20
)

type implExtractor struct {
	client            *http.Client
	pool              *worker.Pool
	retry             retry.Config
	baseURL           string
	thumbHost         string
	languages         []string
	autoLanguage      string
	transcriptTimeout time.Duration
	logger            logger.Logger
}

// New creates a YouTube Extractor. Transcript downloads run on pool.
func New(cfg config.VideoConfig, pool *worker.Pool, log logger.Logger) Extractor {
	return newExtractor(cfg, pool, log, defaultBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
}

func newExtractor(cfg config.VideoConfig, pool *worker.Pool, log logger.Logger, baseURL string, client *http.Client) *implExtractor {
	return &implExtractor{
		client:            client,
		pool:              pool,
		retry:             retry.Default,
		baseURL:           baseURL,
		thumbHost:         defaultThumbHost,
		languages:         cfg.TranscriptLanguages,
		autoLanguage:      cfg.AutoCaptionLanguage,
		transcriptTimeout: cfg.TranscriptTimeout,
		logger:            log,
	}
}
