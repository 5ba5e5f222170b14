package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
)

// MarkdownExtension is the extension of the raw summary written per file.
const MarkdownExtension = ".md"

// Process summarizes one inbox file, writes <stem>.md plus one export per
// registered format into the output folder, and archives the source.
// On failure the source stays in the inbox.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting inbox file: %s", path)
	p.logger.Info(ctx, "========================================")

	// Step 1: Read the source
	src, err := readSource(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	// Step 2: Summarize
	result, err := p.pipeline.Summarize(ctx, src)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	// Step 3: Write the raw summary
	mdPath, err := p.writeOutput(ctx, p.cfg.Output, stem+MarkdownExtension, []byte(Markdown(result)))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	outputs := []string{mdPath}

	// Step 4: Export every registered format from the raw summary
	title := exporter.Sanitize(result.Title)
	for _, format := range p.exporters.Formats() {
		e, err := p.exporters.Get(format)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		data, err := e.Render(title, result.RawSummary)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		out, err := p.writeOutput(ctx, p.cfg.Output, stem+exporter.FilenameSuffix+e.Extension(), data)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		outputs = append(outputs, out)
	}

	// Step 5: Move the source to the archived folder
	if _, err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move source to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	for _, out := range outputs {
		p.logger.Info(ctx, "Output: %s", out)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return nil
}

// Markdown renders a summary as a standalone markdown file.
func Markdown(res *domain.SummaryResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", res.Title)
	if thumb := res.Extras[domain.MetaThumbnail]; thumb != "" {
		fmt.Fprintf(&sb, "![thumbnail](%s)\n\n", thumb)
	}
	sb.WriteString(strings.TrimSpace(res.RawSummary))
	sb.WriteString("\n")
	return sb.String()
}
