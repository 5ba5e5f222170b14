package video

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/worker"
)

const defaultTranscriptTimeout = 20 * time.Second

// Extract validates url, then resolves the video's metadata while its
// transcript downloads on the worker pool. A missing or late transcript
// leaves ExtractedContent.Transcript empty.
func (e *implExtractor) Extract(ctx context.Context, url string) (*domain.ExtractedContent, error) {
	id, err := VideoID(url)
	if err != nil {
		return nil, err
	}

	transcript := worker.Submit(ctx, e.pool, func(ctx context.Context) (string, error) {
		return e.fetchTranscript(ctx, id)
	})

	page, err := e.fetchWatchPage(ctx, id)
	if err != nil {
		transcript.Cancel()
		return nil, domain.Extraction("resolve video "+id, err)
	}
	md := e.parseMetadata(ctx, id, page)

	content := &domain.ExtractedContent{
		Title: md.title,
		Body:  md.description,
		Metadata: map[string]string{
			domain.MetaVideoID:   id,
			domain.MetaThumbnail: md.thumbnail,
		},
	}
	if md.lengthSeconds != "" {
		content.Metadata[domain.MetaLengthSeconds] = md.lengthSeconds
	}
	if md.author != "" {
		content.Metadata[domain.MetaAuthor] = md.author
	}

	content.Transcript = e.awaitTranscript(ctx, id, transcript)
	return content, nil
}

// awaitTranscript joins the transcript task, giving up after the configured
// timeout.
func (e *implExtractor) awaitTranscript(ctx context.Context, id string, task *worker.Task[string]) string {
	timeout := e.transcriptTimeout
	if timeout <= 0 {
		timeout = defaultTranscriptTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := task.Wait(waitCtx)
	switch {
	case err == nil:
		e.logger.Debug(ctx, "Transcript for %s has %d characters", id, len(text))
		return text
	case errors.Is(err, errNoTranscript):
		e.logger.Info(ctx, "Video %s has no usable transcript", id)
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		e.logger.Warn(ctx, "Transcript for %s not ready after %s, continuing without it", id, timeout)
	default:
		e.logger.Warn(ctx, "Transcript for %s unavailable: %v", id, err)
	}
	return ""
}
