package processor

import "context"

// Processor handles one file dropped into the inbox directory.
type Processor interface {
	Process(ctx context.Context, path string) error
}
