package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
)

type implExtractor struct {
	logger logger.Logger
}

// New creates an Extractor for PDF documents.
func New(log logger.Logger) Extractor {
	return &implExtractor{logger: log}
}

// Extract returns the text of every page that has any, joined by a single
// space in page order. Bytes that do not parse as a PDF fail with
// domain.ErrExtraction.
func (e *implExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.Extraction("parse pdf", fmt.Errorf("panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.Extraction("open pdf", err)
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", domain.Extraction("read pdf", err)
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug(ctx, "Skipping page %d/%d: %v", i, numPages, err)
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	e.logger.Debug(ctx, "Extracted text from %d of %d pages", len(pages), numPages)
	return strings.Join(pages, " "), nil
}
