package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
)

const (
	uploadField     = "pdf"
	multipartMemory = 32 << 20
)

func (s *Server) handleSummarizeVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(ctx, w, "summarize video", requestBodyError(err))
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		s.writeError(ctx, w, "summarize video", domain.Validation("Please enter a YouTube URL"))
		return
	}

	result, err := s.pipeline.Summarize(ctx, domain.VideoSource(url))
	if err != nil {
		s.writeError(ctx, w, "summarize video", err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(result))
}

func (s *Server) handleSummarizeDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			err = domain.Validation("No file selected")
		}
		s.writeError(ctx, w, "summarize document", requestBodyError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(ctx, w, "summarize document", domain.Validation("No file selected"))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.writeError(ctx, w, "summarize document", domain.Validation("Only PDF files are accepted"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(ctx, w, "summarize document", fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.pipeline.Summarize(ctx, domain.DocumentSource(data, header.Filename))
	if err != nil {
		s.writeError(ctx, w, "summarize document", err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(result))
}

// handleDownload renders caller supplied content with the named exporter.
func (s *Server) handleDownload(format string) http.HandlerFunc {
	op := "download " + format

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

		e, err := s.exporters.Get(format)
		if err != nil {
			s.writeError(ctx, w, op, err)
			return
		}

		var req domain.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(ctx, w, op, requestBodyError(err))
			return
		}
		if req.Title == "" {
			req.Title = exporter.DefaultTitle
		}

		title := exporter.Sanitize(req.Title)
		data, err := e.Render(title, req.Content)
		if err != nil {
			s.writeError(ctx, w, op, err)
			return
		}

		w.Header().Set("Content-Type", e.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": exporter.Filename(title, e),
		}))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			s.logger.Warn(ctx, "%s: write response: %v", op, err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newSummaryResponse(res *domain.SummaryResult) summaryResponse {
	return summaryResponse{
		Success:       true,
		Title:         res.Title,
		Summary:       res.DisplaySummary,
		RawSummary:    res.RawSummary,
		Thumbnail:     res.Extras[domain.MetaThumbnail],
		Duration:      fmt.Sprintf("%.2f seconds", res.ElapsedSeconds),
		LengthSeconds: res.Extras[domain.MetaLengthSeconds],
	}
}

// requestBodyError keeps size errors intact and reports anything else as a
// malformed request.
func requestBodyError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.Validation("Invalid request body")
}
