package exporter

import "github.com/nguyentantai21042004/brief-flow/internal/config"

// NewRegistry builds the pdf and docx exporters from cfg.
func NewRegistry(cfg config.ExportConfig) (Registry, error) {
	pdf, err := NewPDFExporter(cfg.FontPath, cfg.BoldFontPath)
	if err != nil {
		return nil, err
	}
	return Registry{
		"pdf":  pdf,
		"docx": NewDOCXExporter(),
	}, nil
}
