package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yaml"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "briefflow",
	Short: "Summarize YouTube videos and PDF documents with Gemini",
	Long: `briefflow turns a YouTube video or a PDF document into a structured summary
and exports summaries as PDF or Word documents.

Usage:
  briefflow serve
  briefflow summarize <youtube-url|file.pdf> [flags]
  briefflow export --in summary.md --title "My Summary" [flags]
  briefflow watch`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Path to the YAML config file (default: ./config.yaml when present)")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// configPath returns --config, or config.yaml when it exists.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}
