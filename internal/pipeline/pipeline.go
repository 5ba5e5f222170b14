package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/nguyentantai21042004/brief-flow/internal/formatter"
	"github.com/nguyentantai21042004/brief-flow/internal/prompt"
	"github.com/nguyentantai21042004/brief-flow/internal/textnorm"
	"github.com/nguyentantai21042004/brief-flow/internal/video"
)

// UntitledDocument is used when an upload has no usable file name.
const UntitledDocument = "Untitled Document"

// Summarize runs extraction, normalization, the model call and formatting for
// src. Partial extraction (no transcript) is not an error.
func (p *implPipeline) Summarize(ctx context.Context, src domain.RawSource) (*domain.SummaryResult, error) {
	start := time.Now()

	var (
		title  string
		text   string
		label  string
		extras map[string]string
		err    error
	)

	switch src.Kind {
	case domain.SourceVideo:
		label = prompt.LabelVideo
		title, text, extras, err = p.videoText(ctx, src.URL)
	case domain.SourceDocument:
		label = prompt.LabelDocument
		title, text, err = p.documentText(ctx, src)
	default:
		err = domain.Validation("Unsupported source")
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Summarizing %s %q (%d characters)", src.Kind, title, len([]rune(text)))

	raw, err := p.summarizer.Summarize(ctx, prompt.Build(label, text))
	if err != nil {
		return nil, err
	}

	result := &domain.SummaryResult{
		Title:          title,
		RawSummary:     raw,
		DisplaySummary: formatter.ToHTML(raw),
		ElapsedSeconds: time.Since(start).Seconds(),
		Extras:         extras,
	}

	p.logger.Info(ctx, "Summary of %q ready in %.2fs", title, result.ElapsedSeconds)
	return result, nil
}

// videoText builds the model input from the video's title, description and
// transcript, each normalized separately.
func (p *implPipeline) videoText(ctx context.Context, url string) (string, string, map[string]string, error) {
	content, err := p.videos.Extract(ctx, url)
	if err != nil {
		return "", "", nil, err
	}

	title := textnorm.Normalize(content.Title, p.maxLength)
	if title == "" {
		title = video.UntitledVideo
	}
	description := textnorm.Normalize(content.Body, p.maxLength)

	var sb strings.Builder
	fmt.Fprintf(&sb, "TITLE: %s\nDESCRIPTION: %s", title, description)
	if content.Transcript != "" {
		fmt.Fprintf(&sb, "\nTRANSCRIPT:\n%s", textnorm.Normalize(content.Transcript, p.maxLength))
	} else {
		p.logger.Info(ctx, "No transcript for %q, summarizing title and description only", title)
	}

	extras := make(map[string]string, 2)
	for _, key := range []string{domain.MetaThumbnail, domain.MetaLengthSeconds} {
		if v := content.Metadata[key]; v != "" {
			extras[key] = v
		}
	}
	return title, sb.String(), extras, nil
}

// documentText extracts and normalizes an uploaded document. A document
// without any text is a validation failure.
func (p *implPipeline) documentText(ctx context.Context, src domain.RawSource) (string, string, error) {
	raw, err := p.documents.Extract(ctx, src.Data)
	if err != nil {
		return "", "", err
	}

	text := textnorm.Normalize(raw, p.maxLength)
	if text == "" {
		return "", "", domain.Validation("The PDF contains no text or could not be read")
	}
	return DocumentTitle(src.Filename), text, nil
}

// DocumentTitle derives a display title from an upload's file name.
func DocumentTitle(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if title := exporter.SecureFilename(strings.TrimSuffix(base, filepath.Ext(base))); title != "" {
		return title
	}
	return UntitledDocument
}
