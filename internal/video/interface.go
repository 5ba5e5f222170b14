package video

import (
	"context"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
)

// Extractor resolves a video reference into its title, description and
// transcript.
type Extractor interface {
	Extract(ctx context.Context, url string) (*domain.ExtractedContent, error)
}
