package video

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/brief-flow/internal/config"
	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/logger"
	"github.com/nguyentantai21042004/brief-flow/internal/retry"
	"github.com/nguyentantai21042004/brief-flow/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "dQw4w9WgXcQ"

const timedTextXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0" dur="1.5">Hello   world</text>` +
	"<text start=\"1.5\" dur=\"2\">it&amp;#39;s a\ntest</text>" +
	`<text start="3.5" dur="1"></text>` +
	`</transcript>`

type fakeYouTube struct {
	t           *testing.T
	srv         *httptest.Server
	watchHits   int32
	playerHits  int32
	page        func(base string) string
	timedText   http.HandlerFunc
	watchStatus int
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	f := &fakeYouTube{t: t}
	f.page = func(base string) string { return watchPage(t, base, true) }
	f.timedText = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timedTextXML))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.watchHits, 1)
		if f.watchStatus != 0 {
			w.WriteHeader(f.watchStatus)
			return
		}
		fmt.Fprint(w, f.page(f.srv.URL))
	})
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.playerHits, 1)
		w.Write([]byte(`{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in"}}`))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		f.timedText(w, r)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func watchPage(t *testing.T, base string, withPlayer bool) string {
	t.Helper()

	head := `<meta property="og:title" content="OG Title">` +
		`<meta property="og:description" content="OG description">` +
		`<meta property="og:image" content="https://img.example/og.jpg">`
	if !withPlayer {
		return "<html><head>" + head + "</head><body></body></html>"
	}

	player := map[string]any{
		"videoDetails": map[string]any{
			"videoId":          testID,
			"title":            "Go Concurrency Patterns",
			"shortDescription": `Talk about "channels" {and} goroutines`,
			"lengthSeconds":    "1800",
			"author":           "Gopher",
			"thumbnail": map[string]any{"thumbnails": []map[string]any{
				{"url": "https://img.example/small.jpg", "width": 120, "height": 90},
				{"url": "https://img.example/large.jpg", "width": 1280, "height": 720},
			}},
		},
		"captions": map[string]any{"playerCaptionsTracklistRenderer": map[string]any{
			"captionTracks": []map[string]any{
				{"baseUrl": base + "/api/timedtext?lang=de", "languageCode": "de"},
				{"baseUrl": base + "/api/timedtext?lang=en&kind=asr", "languageCode": "en", "kind": "asr"},
				{"baseUrl": base + "/api/timedtext?lang=en", "languageCode": "en"},
			},
		}},
	}
	raw, err := json.Marshal(player)
	require.NoError(t, err)

	return "<html><head>" + head + "</head><body><script>var ytInitialPlayerResponse = " +
		string(raw) + ";var meta = {};</script></body></html>"
}

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{
		TranscriptLanguages: []string{"tr", "en"},
		AutoCaptionLanguage: "en",
		TranscriptTimeout:   2 * time.Second,
		HTTPTimeout:         5 * time.Second,
	}
}

func newTestExtractor(t *testing.T, f *fakeYouTube, cfg config.VideoConfig) *implExtractor {
	pool := worker.NewPool(2)
	t.Cleanup(pool.Close)

	e := newExtractor(cfg, pool, logger.NewNop(), f.srv.URL, f.srv.Client())
	e.retry = retry.Config{MaxRetries: 1, InitialWait: time.Millisecond}
	e.thumbHost = "https://thumbs.example"
	return e
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch", "https://www.youtube.com/watch?v=" + testID, testID, false},
		{"watch with params", "https://www.youtube.com/watch?v=" + testID + "&t=42s", testID, false},
		{"short link", "https://youtu.be/" + testID, testID, false},
		{"no scheme", "youtube.com/watch?v=" + testID, testID, false},
		{"embed", "https://www.youtube.com/embed/" + testID, testID, false},
		{"nocookie", "https://www.youtube-nocookie.com/embed/" + testID, testID, false},
		{"v path", "http://youtube.com/v/" + testID, testID, false},
		{"surrounding space", "  https://youtu.be/" + testID + "  ", testID, false},
		{"empty", "", "", true},
		{"other host", "https://vimeo.com/123456789", "", true},
		{"short id", "https://youtu.be/abc", "", true},
		{"not a url", "hello world", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VideoID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.ErrorIs(t, Validate(tt.url), domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, Validate(tt.url))
		})
	}
}

func TestExtract(t *testing.T) {
	f := newFakeYouTube(t)
	e := newTestExtractor(t, f, testVideoConfig())

	got, err := e.Extract(context.Background(), "https://www.youtube.com/watch?v="+testID)
	require.NoError(t, err)

	assert.Equal(t, "Go Concurrency Patterns", got.Title)
	assert.Equal(t, `Talk about "channels" {and} goroutines`, got.Body)
	assert.Equal(t, "Hello world it's a test", got.Transcript)
	assert.Equal(t, "https://img.example/large.jpg", got.Metadata[domain.MetaThumbnail])
	assert.Equal(t, "1800", got.Metadata[domain.MetaLengthSeconds])
	assert.Equal(t, "Gopher", got.Metadata[domain.MetaAuthor])
	assert.Equal(t, testID, got.Metadata[domain.MetaVideoID])
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.playerHits))
}

func TestExtractOpenGraphFallback(t *testing.T) {
	f := newFakeYouTube(t)
	f.page = func(base string) string { return watchPage(t, base, false) }
	e := newTestExtractor(t, f, testVideoConfig())

	got, err := e.Extract(context.Background(), "https://youtu.be/"+testID)
	require.NoError(t, err)

	assert.Equal(t, "OG Title", got.Title)
	assert.Equal(t, "OG description", got.Body)
	assert.Equal(t, "https://img.example/og.jpg", got.Metadata[domain.MetaThumbnail])
	assert.Empty(t, got.Transcript)
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.playerHits))
}

func TestExtractUntitled(t *testing.T) {
	f := newFakeYouTube(t)
	f.page = func(string) string { return "<html><body>nothing here</body></html>" }
	e := newTestExtractor(t, f, testVideoConfig())

	got, err := e.Extract(context.Background(), "https://youtu.be/"+testID)
	require.NoError(t, err)

	assert.Equal(t, UntitledVideo, got.Title)
	assert.Equal(t, "https://thumbs.example/vi/"+testID+"/hqdefault.jpg", got.Metadata[domain.MetaThumbnail])
	assert.NotContains(t, got.Metadata, domain.MetaLengthSeconds)
}

func TestExtractInvalidURLSkipsNetwork(t *testing.T) {
	f := newFakeYouTube(t)
	e := newTestExtractor(t, f, testVideoConfig())

	_, err := e.Extract(context.Background(), "https://example.com/watch?v=nope")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualValues(t, 0, atomic.LoadInt32(&f.watchHits))
}

func TestExtractWatchPageFailure(t *testing.T) {
	f := newFakeYouTube(t)
	f.watchStatus = http.StatusServiceUnavailable
	e := newTestExtractor(t, f, testVideoConfig())

	_, err := e.Extract(context.Background(), "https://youtu.be/"+testID)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractTranscriptTimeout(t *testing.T) {
	f := newFakeYouTube(t)
	release := make(chan struct{})
	defer close(release)
	f.timedText = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}

	cfg := testVideoConfig()
	cfg.TranscriptTimeout = 50 * time.Millisecond
	e := newTestExtractor(t, f, cfg)

	start := time.Now()
	got, err := e.Extract(context.Background(), "https://youtu.be/"+testID)
	require.NoError(t, err)

	assert.Empty(t, got.Transcript)
	assert.Equal(t, "Go Concurrency Patterns", got.Title)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPickTrack(t *testing.T) {
	tr := captionTrack{BaseURL: "u/tr", LanguageCode: "tr"}
	en := captionTrack{BaseURL: "u/en", LanguageCode: "en"}
	asrEn := captionTrack{BaseURL: "u/asr-en", LanguageCode: "en", Kind: "asr"}
	asrTr := captionTrack{BaseURL: "u/asr-tr", LanguageCode: "tr", Kind: "asr"}
	locked := captionTrack{BaseURL: "u/tr?x=1&exp=xpe", LanguageCode: "tr"}
	de := captionTrack{BaseURL: "u/de", LanguageCode: "de"}

	tests := []struct {
		name   string
		tracks []captionTrack
		want   captionTrack
		ok     bool
	}{
		{"manual tr first", []captionTrack{asrEn, en, tr}, tr, true},
		{"manual en second", []captionTrack{asrEn, en, de}, en, true},
		{"auto en last", []captionTrack{de, asrTr, asrEn}, asrEn, true},
		{"auto tr is not used", []captionTrack{asrTr, de}, captionTrack{}, false},
		{"token locked skipped", []captionTrack{locked, en}, en, true},
		{"none", nil, captionTrack{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickTrack(tt.tracks, []string{"tr", "en"}, "en")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimedText(t *testing.T) {
	got, err := parseTimedText([]byte(timedTextXML))
	require.NoError(t, err)
	assert.Equal(t, "Hello world it's a test", got)

	srv3 := `<timedtext format="3"><body><p t="0"><s>Merhaba</s><s> dünya</s></p><p t="10">ikinci &amp;amp; son</p></body></timedtext>`
	got, err = parseTimedText([]byte(srv3))
	require.NoError(t, err)
	assert.Equal(t, "Merhaba dünya ikinci & son", got)

	_, err = parseTimedText([]byte("<transcript></transcript>"))
	assert.ErrorIs(t, err, errNoTranscript)

	_, err = parseTimedText([]byte("not xml <"))
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};rest`, `{"a":1}`},
		{"nested", `{"a":{"b":{}}} trailing`, `{"a":{"b":{}}}`},
		{"braces in string", `{"a":"}{"}x`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"say \"}\""};`, `{"a":"say \"}\""}`},
		{"escaped backslash", `{"a":"c:\\"}x`, `{"a":"c:\\"}`},
		{"not an object", `[1,2]`, ""},
		{"unterminated", `{"a":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(extractJSON([]byte(tt.in))))
		})
	}
}
