// Package formatter turns the model's markdown-like summary into an HTML
// fragment for display. It only knows headings, bullets and plain lines.
package formatter

import (
	"strings"

	"github.com/nguyentantai21042004/brief-flow/internal/prompt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies a summary line.
type Kind int

const (
	Plain Kind = iota
	Heading
	Bullet
)

// Node is one classified line. Text has the marker removed for headings and bullets.
type Node struct {
	Kind Kind
	Text string
}

// Parse classifies every line of markdown. The first matching rule wins,
// so a bullet that contains "##" stays a bullet.
func Parse(markdown string) []Node {
	lines := strings.Split(markdown, "\n")
	nodes := make([]Node, 0, len(lines))
	for _, line := range lines {
		nodes = append(nodes, classify(line))
	}
	return nodes
}

func classify(line string) Node {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, prompt.HeadingMarker):
		return Node{Kind: Heading, Text: strings.TrimSpace(trimmed[len(prompt.HeadingMarker):])}
	case strings.HasPrefix(trimmed, prompt.BulletMarker):
		return Node{Kind: Bullet, Text: strings.TrimSpace(trimmed[len(prompt.BulletMarker):])}
	default:
		return Node{Kind: Plain, Text: line}
	}
}

// Render writes nodes as an HTML fragment, one line per node.
func Render(nodes []Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch n.Kind {
		case Heading:
			renderNode(&sb, headingNode(n.Text))
		case Bullet:
			renderNode(&sb, bulletNode(n.Text))
		default:
			sb.WriteString(html.EscapeString(n.Text))
		}
	}
	return sb.String()
}

// ToHTML is Parse followed by Render.
func ToHTML(markdown string) string {
	return Render(Parse(markdown))
}

func headingNode(text string) *html.Node {
	h := element(atom.H5, "mt-4 mb-2 fw-bold")
	h.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return h
}

func bulletNode(text string) *html.Node {
	div := element(atom.Div, "mb-2 ps-3")
	div.AppendChild(element(atom.I, "bi bi-arrow-right me-2"))
	div.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return div
}

func element(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func renderNode(sb *strings.Builder, n *html.Node) {
	// strings.Builder never fails to write.
	_ = html.Render(sb, n)
}
