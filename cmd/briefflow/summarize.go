package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/spf13/cobra"
)

var (
	flagExport    []string
	flagOutputDir string
	flagJSON      bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <youtube-url|file.pdf>",
	Short: "Summarize one video or PDF and print the result",
	Long: `Summarize runs the pipeline once and prints the raw summary to stdout.

Examples:
  briefflow summarize https://www.youtube.com/watch?v=dQw4w9WgXcQ
  briefflow summarize lecture.pdf --export pdf,docx --out ./out
  briefflow summarize https://youtu.be/dQw4w9WgXcQ --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringSliceVar(&flagExport, "export", nil, "Also export the summary (pdf, docx)")
	summarizeCmd.Flags().StringVar(&flagOutputDir, "out", ".", "Directory for exported files")
	summarizeCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the full result as JSON")
}

type summarizeOutput struct {
	Title          string            `json:"title"`
	RawSummary     string            `json:"raw_summary"`
	Summary        string            `json:"summary"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	Extras         map[string]string `json:"extras,omitempty"`
	Exports        []string          `json:"exports,omitempty"`
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := sourceFromArg(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipeline.Summarize(ctx, src)
	if err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	exports, err := writeExports(a.exporters, flagExport, flagOutputDir, result.Title, result.RawSummary)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summarizeOutput{
			Title:          result.Title,
			RawSummary:     result.RawSummary,
			Summary:        result.DisplaySummary,
			ElapsedSeconds: result.ElapsedSeconds,
			Extras:         result.Extras,
			Exports:        exports,
		})
	}

	fmt.Fprintf(out, "# %s\n\n%s\n", result.Title, strings.TrimSpace(result.RawSummary))
	for _, path := range exports {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Done in %.2f seconds\n", result.ElapsedSeconds)
	return nil
}

// sourceFromArg treats an existing .pdf path as a document and anything else
// as a video URL.
func sourceFromArg(arg string) (domain.RawSource, error) {
	if strings.EqualFold(filepath.Ext(arg), ".pdf") {
		data, err := os.ReadFile(arg)
		if err != nil {
			return domain.RawSource{}, fmt.Errorf("read document: %w", err)
		}
		return domain.DocumentSource(data, filepath.Base(arg)), nil
	}
	return domain.VideoSource(arg), nil
}

// writeExports renders content in every requested format into dir.
func writeExports(reg exporter.Registry, formats []string, dir, title, content string) ([]string, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	if err := ensureDirectories(dir); err != nil {
		return nil, err
	}

	title = exporter.Sanitize(title)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		e, err := reg.Get(strings.TrimSpace(format))
		if err != nil {
			return nil, err
		}
		data, err := e.Render(title, content)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		path := filepath.Join(dir, exporter.Filename(title, e))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
