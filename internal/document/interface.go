package document

import "context"

// Extractor pulls plain text out of an uploaded document.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
