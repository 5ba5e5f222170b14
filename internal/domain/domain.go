package domain

// SourceKind tells which branch of a RawSource is populated.
type SourceKind int

const (
	SourceVideo SourceKind = iota + 1
	SourceDocument
)

func (k SourceKind) String() string {
	switch k {
	case SourceVideo:
		return "video"
	case SourceDocument:
		return "document"
	default:
		return "unknown"
	}
}

// RawSource is the input to the pipeline: either a video URL or document bytes.
type RawSource struct {
	Kind     SourceKind
	URL      string
	Data     []byte
	Filename string
}

// VideoSource builds a RawSource for a video reference.
func VideoSource(url string) RawSource {
	return RawSource{Kind: SourceVideo, URL: url}
}

// DocumentSource builds a RawSource for an uploaded document.
func DocumentSource(data []byte, filename string) RawSource {
	return RawSource{Kind: SourceDocument, Data: data, Filename: filename}
}

// Metadata keys filled by the video extractor.
const (
	MetaThumbnail     = "thumbnail"
	MetaLengthSeconds = "length_seconds"
	MetaVideoID       = "video_id"
	MetaAuthor        = "author"
)

// ExtractedContent is what a source extractor produces.
// Title is never empty. Body and Transcript may be.
type ExtractedContent struct {
	Title      string
	Body       string
	Transcript string
	Metadata   map[string]string
}

// SummaryResult is the outcome of one summarization request.
// RawSummary is the model output untouched; DisplaySummary is derived from it
// and must never be fed back into an exporter.
type SummaryResult struct {
	Title          string
	RawSummary     string
	DisplaySummary string
	ElapsedSeconds float64
	Extras         map[string]string
}

// ExportRequest carries caller supplied content for a document export.
type ExportRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
