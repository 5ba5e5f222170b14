package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/exporter"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	result *domain.SummaryResult
	err    error
	got    []domain.RawSource
}

func (p *stubPipeline) Summarize(_ context.Context, src domain.RawSource) (*domain.SummaryResult, error) {
	p.got = append(p.got, src)
	return p.result, p.err
}

func newTestServer(t *testing.T, p *stubPipeline, maxBytes int64) http.Handler {
	t.Helper()

	reg, err := exporter.NewRegistry(config.ExportConfig{})
	require.NoError(t, err)

	cfg := config.ServerConfig{Addr: ":0", MaxUploadBytes: maxBytes}
	return New(cfg, p, reg, logger.NewNop()).Handler()
}

func videoResult() *domain.SummaryResult {
	return &domain.SummaryResult{
		Title:          "Go Talk",
		RawSummary:     "## 1. Intro\n- point",
		DisplaySummary: "<h5>1. Intro</h5>",
		ElapsedSeconds: 1.234,
		Extras: map[string]string{
			domain.MetaThumbnail:     "https://img.example/t.jpg",
			domain.MetaLengthSeconds: "90",
		},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSummarizeVideo(t *testing.T) {
	p := &stubPipeline{result: videoResult()}
	h := newTestServer(t, p, 1<<20)

	rec := postJSON(h, "/summarize", `{"url":"  https://youtu.be/dQw4w9WgXcQ "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Go Talk", body["title"])
	assert.Equal(t, "<h5>1. Intro</h5>", body["summary"])
	assert.Equal(t, "## 1. Intro\n- point", body["raw_summary"])
	assert.Equal(t, "https://img.example/t.jpg", body["thumbnail"])
	assert.Equal(t, "1.23 seconds", body["duration"])
	assert.Equal(t, "90", body["length_seconds"])

	require.Len(t, p.got, 1)
	assert.Equal(t, domain.VideoSource("https://youtu.be/dQw4w9WgXcQ"), p.got[0])

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestSummarizeVideoErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"empty url", `{"url":"  "}`, nil, http.StatusBadRequest, "Please enter a YouTube URL"},
		{"empty body", ``, nil, http.StatusBadRequest, "Please enter a YouTube URL"},
		{"malformed json", `{"url":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"invalid url", `{"url":"https://example.com"}`, domain.Validation("Invalid YouTube URL"), http.StatusBadRequest, "Invalid YouTube URL"},
		{
			"extraction failure",
			`{"url":"https://youtu.be/dQw4w9WgXcQ"}`,
			domain.Extraction("resolve video", errors.New("dial tcp: secret-host:443")),
			http.StatusInternalServerError,
			"Could not read the content of the source",
		},
		{
			"model failure",
			`{"url":"https://youtu.be/dQw4w9WgXcQ"}`,
			domain.Model("generate content", errors.New("Error 429 quota")),
			http.StatusInternalServerError,
			"The summary could not be generated, please try again later",
		},
		{"unexpected failure", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`, errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &stubPipeline{err: tt.err}, 1<<20)

			rec := postJSON(h, "/summarize", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.NotContains(t, rec.Body.String(), "secret-host")
		})
	}
}

func multipartUpload(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/summarize_pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSummarizeDocument(t *testing.T) {
	p := &stubPipeline{result: &domain.SummaryResult{Title: "notes", RawSummary: "- a", DisplaySummary: "a", ElapsedSeconds: 2}}
	h := newTestServer(t, p, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, "pdf", "notes.PDF", []byte("%PDF-1.4 data")))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "notes", body["title"])
	assert.Equal(t, "2.00 seconds", body["duration"])
	assert.NotContains(t, body, "thumbnail")

	require.Len(t, p.got, 1)
	assert.Equal(t, domain.SourceDocument, p.got[0].Kind)
	assert.Equal(t, "notes.PDF", p.got[0].Filename)
	assert.Equal(t, []byte("%PDF-1.4 data"), p.got[0].Data)
}

func TestSummarizeDocumentRejects(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		wantMsg string
	}{
		{
			"wrong field",
			func(t *testing.T) *http.Request { return multipartUpload(t, "file", "a.pdf", []byte("x")) },
			"No file selected",
		},
		{
			"wrong extension",
			func(t *testing.T) *http.Request { return multipartUpload(t, "pdf", "a.docx", []byte("x")) },
			"Only PDF files are accepted",
		},
		{
			"no extension",
			func(t *testing.T) *http.Request { return multipartUpload(t, "pdf", "pdf", []byte("x")) },
			"Only PDF files are accepted",
		},
		{
			"not multipart",
			func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/summarize_pdf", strings.NewReader("{}"))
			},
			"No file selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubPipeline{}
			h := newTestServer(t, p, 1<<20)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec)["error"])
			assert.Empty(t, p.got)
		})
	}
}

func TestSummarizeDocumentWithoutText(t *testing.T) {
	p := &stubPipeline{err: domain.Validation("The PDF contains no text or could not be read")}
	h := newTestServer(t, p, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartUpload(t, "pdf", "scan.pdf", []byte("%PDF")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The PDF contains no text or could not be read", decodeBody(t, rec)["error"])
}

func TestDownload(t *testing.T) {
	tests := []struct {
		path        string
		contentType string
		filename    string
		magic       []byte
	}{
		{"/download_pdf", "application/pdf", "My_Summary_summary.pdf", []byte("%PDF-")},
		{
			"/download_docx",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"My_Summary_summary.docx",
			[]byte("PK"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h := newTestServer(t, &stubPipeline{}, 1<<20)

			rec := postJSON(h, tt.path, `{"title":"My Summary!","content":"## 1. A\n\n- first\n- second"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, tt.filename, params["filename"])
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), tt.magic))
		})
	}
}

func TestDownloadDefaultTitle(t *testing.T) {
	h := newTestServer(t, &stubPipeline{}, 1<<20)

	rec := postJSON(h, "/download_pdf", `{"content":"- only line"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "Summary_summary.pdf", params["filename"])
}

func TestDownloadTooLarge(t *testing.T) {
	h := newTestServer(t, &stubPipeline{}, 64)

	rec := postJSON(h, "/download_docx", `{"title":"t","content":"`+strings.Repeat("x", 500)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "The file is too large", decodeBody(t, rec)["error"])
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, &stubPipeline{}, 1<<20)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summarize", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDReused(t *testing.T) {
	h := newTestServer(t, &stubPipeline{}, 1<<20)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid\nInjected: yes")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid\nInjected: yes", rec.Header().Get(requestIDHeader))
}

func TestRecoverFromPanic(t *testing.T) {
	reg, err := exporter.NewRegistry(config.ExportConfig{})
	require.NoError(t, err)
	h := New(config.ServerConfig{MaxUploadBytes: 1 << 20}, nil, reg, logger.NewNop()).Handler()

	rec := postJSON(h, "/summarize", `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", decodeBody(t, rec)["error"])
}
