package main

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/brief-flow/internal/processor"
	"github.com/nguyentantai21042004/brief-flow/internal/watcher"
	"github.com/spf13/cobra"
)

var flagSkipExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Summarize PDFs and YouTube link files dropped into the inbox",
	Long: `Watch monitors watch.input. Every new .pdf is summarized as a document and
every .url/.txt file by the first YouTube link inside it. Results go to
watch.output as <name>.md, <name>_summary.pdf and <name>_summary.docx, and the
source moves to watch.archived.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", false, "Ignore files already in the inbox at startup")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	wc := a.cfg.Watch
	if err := ensureDirectories(wc.Input, wc.Output, wc.Archived); err != nil {
		return err
	}

	proc := processor.New(wc, a.pipeline, a.exporters, a.log)
	w, err := watcher.New(wc.Input, proc.Process, processor.IsSupported, a.log, watcher.Options{
		MaxConcurrent:   wc.MaxConcurrent,
		SettleDelay:     watcher.DefaultSettleDelay,
		ProcessExisting: !flagSkipExisting,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "brief-flow inbox is ready!")
	a.log.Info(ctx, "Monitoring: %s", wc.Input)
	a.log.Info(ctx, "Output: %s", wc.Output)
	a.log.Info(ctx, "Archived: %s", wc.Archived)
	a.log.Info(ctx, "Concurrent: %d files at once", wc.MaxConcurrent)
	a.log.Info(ctx, "Press Ctrl+C to stop")
	a.log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.log.Info(ctx, "brief-flow inbox stopped")
	return nil
}
