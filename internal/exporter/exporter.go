// Package exporter renders a summary into downloadable documents.
package exporter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/formatter"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// FilenameSuffix is appended to the sanitized title of every export.
	FilenameSuffix = "_summary"
	// DefaultTitle is used when the caller sends no title.
	DefaultTitle = "Summary"

	maxTitleLength = 100
)

// Exporter serializes a title and markdown-like content into one document format.
type Exporter interface {
	Render(title, content string) ([]byte, error)
	ContentType() string
	Extension() string
}

// Registry maps a format name ("pdf", "docx") to its Exporter.
type Registry map[string]Exporter

// Get returns the exporter for format.
func (r Registry) Get(format string) (Exporter, error) {
	e, ok := r[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (have %s)", format, strings.Join(r.Formats(), ", "))
	}
	return e, nil
}

// Formats lists registered format names in order.
func (r Registry) Formats() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filename returns the download name for title exported with e.
func Filename(title string, e Exporter) string {
	return Sanitize(title) + FilenameSuffix + e.Extension()
}

var (
	reUnsafe  = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool { return r > 0x7f })))
)

// Sanitize turns title into a token safe for a download filename: at most
// 100 characters, ASCII letters, digits, '_', '.', '-'. Never empty.
func Sanitize(title string) string {
	if r := []rune(title); len(r) > maxTitleLength {
		title = string(r[:maxTitleLength])
	}
	if safe := SecureFilename(title); safe != "" {
		return safe
	}
	return strings.ToLower(DefaultTitle)
}

// SecureFilename folds name to ASCII, joins its words with '_' and drops
// everything outside [A-Za-z0-9_.-]. The result may be empty.
func SecureFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = reUnsafe.ReplaceAllString(folded, "")
	return strings.Trim(folded, "._")
}

// contentLines returns the non-blank lines of content classified by the
// summary formatter, with inline markdown stripped. A line made only of
// markers is kept as written.
func contentLines(content string) []formatter.Node {
	var out []formatter.Node
	for _, n := range formatter.Parse(content) {
		raw := strings.TrimSpace(n.Text)
		if raw == "" {
			continue
		}
		if n.Text = cleanMarkdownInline(raw); strings.TrimSpace(n.Text) == "" {
			n.Text = raw
		}
		out = append(out, n)
	}
	return out
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
