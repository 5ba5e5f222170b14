package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/spf13/cobra"
)

var (
	flagTitle     string
	flagInput     string
	flagFormats   []string
	flagExportDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a saved summary as PDF or DOCX",
	Long: `Export renders markdown-like summary text into document files without
calling the model.

Examples:
  briefflow export --in summary.md --title "Go Talk" --format pdf
  cat summary.md | briefflow export --in - --format pdf,docx --out ./out`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&flagTitle, "title", exporter.DefaultTitle, "Document title")
	exportCmd.Flags().StringVar(&flagInput, "in", "", "Summary file to export, - for stdin")
	exportCmd.Flags().StringSliceVar(&flagFormats, "format", []string{"pdf"}, "Output formats (pdf, docx)")
	exportCmd.Flags().StringVar(&flagExportDir, "out", ".", "Output directory")
	_ = exportCmd.MarkFlagRequired("in")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var content []byte
	var err error
	if flagInput == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(flagInput)
	}
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}

	a, err := newExportApp()
	if err != nil {
		return err
	}

	paths, err := writeExports(a.exporters, flagFormats, flagExportDir, flagTitle, string(content))
	if err != nil {
		return err
	}
	for _, path := range paths {
		a.log.Info(ctx, "Wrote %s", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
