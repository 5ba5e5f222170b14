package prompt

import "fmt"

// Content type labels inserted into the prompt.
const (
	LabelVideo    = "YouTube video"
	LabelDocument = "PDF document"
)

// Markers the model is told to use; the formatter parses the same ones.
const (
	HeadingMarker = "## "
	BulletMarker  = "- "
)

const summaryPrompt = `Summarize the following %s content in detail:

%s

Summary rules:
1. Organize into numbered main sections (1. 2. 3.) with 3-5 bullet points under each section
2. Each bullet point is at most 2 sentences
3. Explain technical terms in simple language
4. Highlight the key points
5. Keep the total length between 300 and 500 words
6. Write the summary in markdown (use ## for headings and - for bullet points)
7. Use an instructional, education-focused tone`

// Build returns the summarization prompt for text of the given content type.
func Build(contentTypeLabel, text string) string {
	return fmt.Sprintf(summaryPrompt, contentTypeLabel, text)
}
