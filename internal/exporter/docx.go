package exporter

import (
	"bytes"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/brief-flow/internal/domain"
	"github.com/nguyentantai21042004/brief-flow/internal/formatter"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// DOCXExporter renders a Word document with godocx.
type DOCXExporter struct{}

func NewDOCXExporter() *DOCXExporter {
	return &DOCXExporter{}
}

func (e *DOCXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (e *DOCXExporter) Extension() string { return ".docx" }

// Render writes title as a level 1 heading and one paragraph per non-blank line.
func (e *DOCXExporter) Render(title, content string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, domain.Render("create docx", err)
	}

	if _, err := doc.AddHeading(title, 1); err != nil {
		return nil, domain.Render("add heading", err)
	}

	for _, n := range contentLines(content) {
		p := doc.AddParagraph("")
		switch n.Kind {
		case formatter.Heading:
			addStyledRun(p, n.Text, true, 14)
		case formatter.Bullet:
			addStyledRun(p, "• "+n.Text, false, fontSize)
		default:
			addStyledRun(p, n.Text, false, fontSize)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, domain.Render("write docx", err)
	}
	return buf.Bytes(), nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
