package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
)

// DefaultSettleDelay is how long a new file is left alone before handling so
// the writer can finish.
const DefaultSettleDelay = 500 * time.Millisecond

// Options tunes a Watcher.
type Options struct {
	MaxConcurrent int
	SettleDelay   time.Duration
	// ProcessExisting handles files already in the directory at Start.
	ProcessExisting bool
}

// New creates a Watcher for inputDir.
func New(inputDir string, handler EventHandler, filter Filter, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}

	return &implWatcher{
		inputDir:        inputDir,
		handler:         handler,
		filter:          filter,
		logger:          log,
		watcher:         watcher,
		maxConcurrent:   opts.MaxConcurrent,
		settleDelay:     opts.SettleDelay,
		processExisting: opts.ProcessExisting,
		semaphore:       make(chan struct{}, opts.MaxConcurrent),
		inFlight:        make(map[string]struct{}),
	}, nil
}
