package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
)

type summarizeRequest struct {
	URL string `json:"url"`
}

type summaryResponse struct {
	Success       bool   `json:"success"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	RawSummary    string `json:"raw_summary"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Duration      string `json:"duration"`
	LengthSeconds string `json:"length_seconds,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code and a message safe to show users.
// The cause is only logged.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytes):
		status = http.StatusRequestEntityTooLarge
		err = domain.Validation("The file is too large")
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "%s failed: %v", op, err)
	} else {
		s.logger.Warn(ctx, "%s rejected: %v", op, err)
	}
	writeJSON(w, status, errorResponse{Error: domain.UserMessage(err)})
}
