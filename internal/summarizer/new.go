package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"google.golang.org/genai"
)

type implSummarizer struct {
	gen        Generator
	model      string
	genConfig  *genai.GenerateContentConfig
	timeout    time.Duration
	maxRetries int
	retryWait  time.Duration
	logger     logger.Logger
}

// New creates a Summarizer backed by the Gemini API.
func New(ctx context.Context, cfg config.GeminiConfig, log logger.Logger) (Summarizer, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" || cfg.APIVersion != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return NewWithGenerator(client.Models, cfg, log), nil
}

// NewWithGenerator creates a Summarizer on top of an existing Generator.
func NewWithGenerator(gen Generator, cfg config.GeminiConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		gen:        gen,
		model:      cfg.Model,
		genConfig:  generationConfig(cfg),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
		logger:     log,
	}
}

// generationConfig holds the fixed sampling and safety parameters.
func generationConfig(cfg config.GeminiConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		TopK:            genai.Ptr(cfg.TopK),
		MaxOutputTokens: cfg.MaxTokens,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		},
	}
}
