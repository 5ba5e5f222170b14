package summarizer

import (
	"context"

	"google.golang.org/genai"
)

// Summarizer sends a prompt to the generative model and returns its markdown answer.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Generator is the part of *genai.Models used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
