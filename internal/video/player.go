package video

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const playerResponseMarker = "ytInitialPlayerResponse = "

type playerResponse struct {
	VideoDetails *videoDetails `json:"videoDetails"`
	Captions     *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type videoDetails struct {
	VideoID          string `json:"videoId"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	LengthSeconds    string `json:"lengthSeconds"`
	Author           string `json:"author"`
	Thumbnail        struct {
		Thumbnails []thumbnail `json:"thumbnails"`
	} `json:"thumbnail"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

func (r *playerResponse) tracks() []captionTrack {
	if r == nil || r.Captions == nil {
		return nil
	}
	return r.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

// largestThumbnail returns the widest thumbnail url, or "".
func (d *videoDetails) largestThumbnail() string {
	best := thumbnail{}
	for _, t := range d.Thumbnail.Thumbnails {
		if t.URL != "" && t.Width >= best.Width {
			best = t
		}
	}
	return best.URL
}

// parsePlayerResponse finds the ytInitialPlayerResponse object in a watch page.
func parsePlayerResponse(page []byte) (*playerResponse, error) {
	idx := bytes.Index(page, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("unterminated ytInitialPlayerResponse")
	}

	var resp playerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &resp, nil
}

// extractJSON returns the balanced JSON object at the start of b.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
