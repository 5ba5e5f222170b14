package video

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/retry"
	"golang.org/x/net/html"
)

const (
	androidVersion = "20.10.38"
	androidUA      = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"
)

// errNoTranscript means the video has no usable caption track.
var errNoTranscript = errors.New("no transcript available")

type innertubeRequest struct {
	VideoID string `json:"videoId"`
	Context struct {
		Client innertubeClient `json:"client"`
	} `json:"context"`
	RacyCheckOk    bool `json:"racyCheckOk"`
	ContentCheckOk bool `json:"contentCheckOk"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type timedText struct {
	Lines []timedLine `xml:"text"`
	Body  struct {
		Paragraphs []timedLine `xml:"p"`
	} `xml:"body"`
}

type timedLine struct {
	Text     string `xml:",chardata"`
	Segments []struct {
		Text string `xml:",chardata"`
	} `xml:"s"`
}

func (l timedLine) String() string {
	if len(l.Segments) == 0 {
		return l.Text
	}
	var sb strings.Builder
	sb.WriteString(l.Text)
	for _, s := range l.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// fetchTranscript resolves the caption tracks of id independently of the
// metadata lookup and downloads the preferred one.
func (e *implExtractor) fetchTranscript(ctx context.Context, id string) (string, error) {
	tracks, err := e.tracksFromWatchPage(ctx, id)
	if err != nil || len(tracks) == 0 {
		e.logger.Debug(ctx, "Watch page has no caption tracks for %s (%v), trying player API", id, err)
		tracks, err = e.tracksFromPlayer(ctx, id)
		if err != nil {
			return "", err
		}
	}

	track, ok := pickTrack(tracks, e.languages, e.autoLanguage)
	if !ok {
		return "", errNoTranscript
	}
	return e.fetchTimedText(ctx, track.BaseURL)
}

// tracksFromWatchPage fetches the watch page on its own so the transcript task
// never waits on the metadata request; each request downloads the page twice.
func (e *implExtractor) tracksFromWatchPage(ctx context.Context, id string) ([]captionTrack, error) {
	page, err := e.fetchWatchPage(ctx, id)
	if err != nil {
		return nil, err
	}
	player, err := parsePlayerResponse(page)
	if err != nil {
		return nil, err
	}
	return player.tracks(), nil
}

// tracksFromPlayer asks the ANDROID innertube player endpoint for captions.
func (e *implExtractor) tracksFromPlayer(ctx context.Context, id string) ([]captionTrack, error) {
	payload := innertubeRequest{VideoID: id, RacyCheckOk: true, ContentCheckOk: true}
	payload.Context.Client = innertubeClient{
		ClientName:        "ANDROID",
		ClientVersion:     androidVersion,
		AndroidSdkVersion: 30,
		Hl:                "en",
		Gl:                "US",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := retry.HTTP(ctx, e.retry, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			e.baseURL+"/youtubei/v1/player?prettyPrint=false", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", androidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", androidVersion)
		return e.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	tracks := player.tracks()
	if len(tracks) == 0 {
		if ps := player.PlayabilityStatus; ps != nil && ps.Reason != "" {
			return nil, fmt.Errorf("%w: %s", errNoTranscript, ps.Reason)
		}
		return nil, errNoTranscript
	}
	return tracks, nil
}

// pickTrack returns the first manual track in languages order, then the
// auto-generated track in autoLanguage. Tracks that need a browser token are
// skipped.
func pickTrack(tracks []captionTrack, languages []string, autoLanguage string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}

	for _, lang := range languages {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	if autoLanguage != "" {
		for _, t := range usable {
			if t.LanguageCode == autoLanguage && t.Kind == "asr" {
				return t, true
			}
		}
	}
	return captionTrack{}, false
}

// fetchTimedText downloads a timedtext caption document and joins its lines.
func (e *implExtractor) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	resp, err := retry.HTTP(ctx, e.retry, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		return e.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return "", fmt.Errorf("read timedtext: %w", err)
	}
	return parseTimedText(body)
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	lines := tt.Lines
	if len(lines) == 0 {
		lines = tt.Body.Paragraphs
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		// Caption text is entity-escaped a second time inside the XML.
		text := strings.Join(strings.Fields(html.UnescapeString(line.String())), " ")
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errNoTranscript
	}
	return strings.Join(parts, " "), nil
}
