package exporter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/formatter"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const (
	utf8Family = "body"
	coreFamily = "Helvetica"
)

// PDFExporter renders a paginated A4 document with gofpdf.
//
// Without a TrueType font only cp1252 can be encoded; other characters are
// transliterated or replaced with '?'. With a font every character the font
// covers is written as is.
type PDFExporter struct {
	regular []byte
	bold    []byte
}

// NewPDFExporter creates a PDFExporter. fontPath and boldFontPath are optional
// UTF-8 TrueType fonts; boldFontPath defaults to fontPath.
func NewPDFExporter(fontPath, boldFontPath string) (*PDFExporter, error) {
	e := &PDFExporter{}
	if fontPath == "" {
		return e, nil
	}

	regular, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	e.regular = regular
	e.bold = regular

	if boldFontPath != "" {
		bold, err := os.ReadFile(boldFontPath)
		if err != nil {
			return nil, fmt.Errorf("read bold font: %w", err)
		}
		e.bold = bold
	}
	return e, nil
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return ".pdf" }

// Render writes title centered in bold followed by one wrapped block per
// non-blank content line.
func (e *PDFExporter) Render(title, content string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	family, tr := e.setupFonts(pdf)

	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, n := range contentLines(content) {
		switch n.Kind {
		case formatter.Heading:
			pdf.SetFont(family, "B", 13)
			pdf.MultiCell(0, 10, tr(n.Text), "", "L", false)
		case formatter.Bullet:
			pdf.SetFont(family, "", 12)
			pdf.MultiCell(0, 10, tr("• "+n.Text), "", "L", false)
		default:
			pdf.SetFont(family, "", 12)
			pdf.MultiCell(0, 10, tr(n.Text), "", "L", false)
		}
		pdf.Ln(5)
	}

	if err := pdf.Error(); err != nil {
		return nil, domain.Render("build pdf", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.Render("write pdf", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) setupFonts(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if e.regular != nil {
		pdf.AddUTF8FontFromBytes(utf8Family, "", e.regular)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", e.bold)
		return utf8Family, func(s string) string { return s }
	}

	// The translator keeps internal state, one per document.
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	return coreFamily, func(s string) string { return cp1252(transliterate(s)) }
}

// replacements covers letters with no cp1252 form and no NFKD decomposition.
var replacements = map[rune]string{
	'ı': "i",
	'ł': "l",
	'Ł': "L",
	'đ': "d",
	'Đ': "D",
}

// transliterate maps s onto characters cp1252 can encode. Letters lose their
// diacritics; anything else unrepresentable becomes '?'.
func transliterate(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if encodable(r) {
			sb.WriteRune(r)
			continue
		}
		if rep, ok := replacements[r]; ok {
			sb.WriteString(rep)
			continue
		}

		wrote := false
		for _, d := range norm.NFKD.String(string(r)) {
			if encodable(d) && !isCombining(d) {
				sb.WriteRune(d)
				wrote = true
			}
		}
		if !wrote {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

func encodable(r rune) bool {
	if r < 0x80 {
		return true
	}
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}

func isCombining(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
}
