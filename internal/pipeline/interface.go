package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
)

// Pipeline turns a raw source into a summary.
type Pipeline interface {
	Summarize(ctx context.Context, src domain.RawSource) (*domain.SummaryResult, error)
}
