package service

import (
	"context"
	"fmt"
	"strings"

	"reading-companion/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// PDFService extracts per-page text from an uploaded PDF, so a single PDF
// can stand in for a batch of page images.
type PDFService struct {
	logger domain.Logger
}

// NewPDFService creates a new PDF text extractor.
func NewPDFService(logger domain.Logger) *PDFService {
	return &PDFService{logger: logger}
}

// IsPDF sniffs the PDF magic header.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// ExtractPages returns the text of every page, in page order.
func (s *PDFService) ExtractPages(ctx context.Context, pdf []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			s.logger.Warn("Failed to extract pdf page text", "page", n+1, "error", err)
			text = ""
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
