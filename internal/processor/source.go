package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/video"
	"mvdan.cc/xurls/v2"
)

// maxLinkFileBytes bounds how much of a .url/.txt file is scanned for links.
const maxLinkFileBytes = 1 << 20

var reLinks = xurls.Strict()

// IsSupported reports whether path is a file the inbox can process.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".url", ".txt":
		return true
	}
	return false
}

// readSource turns an inbox file into a pipeline source. PDFs are summarized
// as documents; link files by their first YouTube URL.
func readSource(path string) (domain.RawSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.RawSource{}, fmt.Errorf("read document: %w", err)
		}
		return domain.DocumentSource(data, filepath.Base(path)), nil

	case ".url", ".txt":
		info, err := os.Stat(path)
		if err != nil {
			return domain.RawSource{}, fmt.Errorf("stat link file: %w", err)
		}
		if info.Size() > maxLinkFileBytes {
			return domain.RawSource{}, domain.Validation("Link file is too large")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.RawSource{}, fmt.Errorf("read link file: %w", err)
		}
		url, ok := FindVideoURL(string(data))
		if !ok {
			return domain.RawSource{}, domain.Validation("No YouTube URL found in " + filepath.Base(path))
		}
		return domain.VideoSource(url), nil

	default:
		return domain.RawSource{}, domain.Validation("Unsupported file type " + filepath.Ext(path))
	}
}

// FindVideoURL returns the first link in text that is a YouTube video.
func FindVideoURL(text string) (string, bool) {
	for _, link := range reLinks.FindAllString(text, -1) {
		if video.Validate(link) == nil {
			return link, true
		}
	}
	return "", false
}
