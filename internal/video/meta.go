package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyentantai21042004/brief-flow/internal/retry"
)

// UntitledVideo is used when the video title cannot be resolved.
const UntitledVideo = "Untitled Video"

type metadata struct {
	title         string
	description   string
	lengthSeconds string
	author        string
	thumbnail     string
}

// fetchWatchPage downloads the watch page HTML for id.
func (e *implExtractor) fetchWatchPage(ctx context.Context, id string) ([]byte, error) {
	watchURL := e.baseURL + "/watch?v=" + id

	resp, err := retry.HTTP(ctx, e.retry, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+1"})
		return e.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}
	return body, nil
}

// parseMetadata reads video details from the embedded player response and
// falls back to the page's Open Graph tags.
func (e *implExtractor) parseMetadata(ctx context.Context, id string, page []byte) metadata {
	var md metadata

	player, err := parsePlayerResponse(page)
	if err != nil {
		e.logger.Debug(ctx, "No player response for %s: %v", id, err)
	} else if d := player.VideoDetails; d != nil {
		md = metadata{
			title:         strings.TrimSpace(d.Title),
			description:   d.ShortDescription,
			lengthSeconds: d.LengthSeconds,
			author:        d.Author,
			thumbnail:     d.largestThumbnail(),
		}
	}

	if md.title == "" || md.thumbnail == "" {
		og := openGraph(page)
		if md.title == "" {
			md.title = og.title
			if md.description == "" {
				md.description = og.description
			}
		}
		if md.thumbnail == "" {
			md.thumbnail = og.thumbnail
		}
	}

	if md.title == "" {
		md.title = UntitledVideo
	}
	if md.thumbnail == "" {
		md.thumbnail = fmt.Sprintf("%s/vi/%s/hqdefault.jpg", e.thumbHost, id)
	}
	return md
}

// openGraph reads og:title, og:description and og:image from page.
func openGraph(page []byte) metadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return metadata{}
	}

	meta := func(property string) string {
		v, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
		return strings.TrimSpace(v)
	}
	return metadata{
		title:       meta("og:title"),
		description: meta("og:description"),
		thumbnail:   meta("og:image"),
	}
}
