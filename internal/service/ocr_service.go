package service

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// PDFRasterizer renders PDF pages to PNG bytes.
type PDFRasterizer interface {
	RenderPages(pdf []byte) ([][]byte, error)
}

// OCREngine extracts text from a single rendered page image.
type OCREngine interface {
	ImageText(image []byte) (string, error)
}

// OCRService implements both sides of the PDF path: go-fitz for page
// rasterization and tesseract (gosseract) for text recognition. The
// extraction engine accepts nil for either capability and degrades
// gracefully, so environments without mupdf/tesseract still work through
// the AI text path.
type OCRService struct {
	languages []string
	dpi       float64
	logger    *zap.Logger
}

func NewOCRService(languages []string, logger *zap.Logger) *OCRService {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &OCRService{
		languages: languages,
		dpi:       300,
		logger:    logger,
	}
}

// RenderPages rasterizes every page of the PDF to PNG at 300 DPI.
func (s *OCRService) RenderPages(pdf []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		png, err := doc.ImagePNG(i, s.dpi)
		if err != nil {
			s.logger.Warn("Failed to render PDF page",
				zap.Int("page", i+1),
				zap.Error(err),
			)
			continue
		}
		pages = append(pages, png)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no renderable pages in PDF")
	}

	s.logger.Debug("PDF rasterized", zap.Int("pages", len(pages)))
	return pages, nil
}

// ImageText runs tesseract over one page image. A fresh client per call:
// gosseract clients are not safe for concurrent use.
func (s *OCRService) ImageText(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR languages: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
