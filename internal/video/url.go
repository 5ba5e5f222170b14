package video

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
)

var reVideoURL = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%\?]{11})`)

// Validate reports whether url looks like a YouTube video link.
func Validate(url string) error {
	_, err := VideoID(url)
	return err
}

// VideoID returns the 11 character id embedded in url.
func VideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", domain.Validation("Please enter a YouTube URL")
	}
	m := reVideoURL.FindStringSubmatch(url)
	if m == nil {
		return "", domain.Validation("Invalid YouTube URL")
	}
	return m[6], nil
}
