package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/retry"
	"google.golang.org/genai"
)

// errBlocked marks responses refused by the safety policy. Never retried.
var errBlocked = errors.New("blocked by safety policy")

// Summarize sends prompt to Gemini and returns the response text.
// Transient failures are retried with exponential backoff.
func (s *implSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	policy := retry.Config{
		MaxRetries:  s.maxRetries,
		InitialWait: s.retryWait,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			s.logger.Warn(ctx, "Gemini call failed (attempt %d/%d), retrying in %s: %v",
				attempt, s.maxRetries+1, wait, err)
		},
	}

	text, err := retry.Do(ctx, policy, isTransient, func(ctx context.Context) (string, error) {
		return s.callGemini(ctx, prompt)
	})
	if err != nil {
		return "", domain.Model("generate content", err)
	}
	return text, nil
}

// callGemini performs a single GenerateContent call.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.gen.GenerateContent(ctx, s.model, genai.Text(prompt), s.genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	s.logger.Debug(ctx, "Gemini %s answered in %s", s.model, time.Since(start))

	return responseText(result)
}

// responseText concatenates the text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("prompt %w: %s", errBlocked, fb.BlockReason)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	cand := result.Candidates[0]
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", fmt.Errorf("response %w", errBlocked)
		}
		return "", fmt.Errorf("empty response from Gemini (finish reason %q)", cand.FinishReason)
	}
	return sb.String(), nil
}

// isTransient reports whether err is worth another attempt.
func isTransient(err error) bool {
	if errors.Is(err, errBlocked) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Errors that lost their APIError type still carry its text form.
	msg := err.Error()
	if m := reStatusCode.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		return retry.RetryableStatus(code)
	}
	for _, marker := range []string{"RESOURCE_EXHAUSTED", "UNAVAILABLE", "quota"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var reStatusCode = regexp.MustCompile(`\bError (\d{3})\b`)
