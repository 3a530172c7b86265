package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finsight/internal/models"

	"go.uber.org/zap"
)

// extractionPrompt is the fixed instruction shared by every AI extraction
// path, regardless of modality.
const extractionPrompt = `You are a financial document analyzer. Analyze this document (invoice, bank statement, receipt, or transaction list) and extract ALL transactions.

Return ONLY a valid JSON object with this exact structure:
{
  "doc_type": "invoice|bank_statement|receipt|csv",
  "currency": "SEK|USD|EUR|etc",
  "summary": "brief description of the document",
  "transactions": [
    {
      "date": "YYYY-MM-DD",
      "description": "transaction description",
      "amount": 123.45,
      "category": "Food|Transport|Shopping|Health|Education|Entertainment|Housing|Salary|Other",
      "type": "expense|income"
    }
  ]
}

Rules:
- Extract every single transaction you can find
- Amounts must be positive numbers
- Use "income" for money received, "expense" for money spent
- If date is missing use today's date
- Categories must be one of: Food, Transport, Shopping, Health, Education, Entertainment, Housing, Salary, Other
- Return ONLY the JSON, no other text`

const (
	// minOCRTextLen is the OCR yield below which a PDF is treated as
	// scanned/image-only and routed to per-page vision extraction.
	minOCRTextLen = 50

	// maxVisionPages bounds cost and latency of the per-page fallback.
	maxVisionPages = 3

	// maxCSVPromptLen bounds the request size of the CSV AI fallback.
	maxCSVPromptLen = 3000

	// pdfStubMessage is sent through the text path when no rasterizer or
	// OCR engine is available in the environment.
	pdfStubMessage = "PDF document uploaded. Please analyze any financial data."
)

// outcome tags one extraction attempt so fallback policy is an explicit,
// ordered iteration instead of nested error juggling.
type outcome int

const (
	outcomeSuccess outcome = iota // stop, use the result
	outcomeSkip                   // try the next strategy
	outcomeFatal                  // stop, fail the document
)

type strategy struct {
	name string
	run  func(ctx context.Context) (*models.ExtractionResult, outcome, error)
}

// ExtractionService turns heterogeneous, untrusted document input into a
// validated ExtractionResult. Each call is stateless given its inputs;
// currency normalization happens afterwards in the caller.
type ExtractionService struct {
	oracle     Completer
	csv        *CSVService
	rasterizer PDFRasterizer // nil when mupdf is unavailable
	ocr        OCREngine     // nil when tesseract is unavailable
	logger     *zap.Logger
	now        func() time.Time
}

func NewExtractionService(oracle Completer, csv *CSVService, rasterizer PDFRasterizer, ocr OCREngine, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		oracle:     oracle,
		csv:        csv,
		rasterizer: rasterizer,
		ocr:        ocr,
		logger:     logger,
		now:        time.Now,
	}
}

// Extract dispatches on the declared content type.
func (s *ExtractionService) Extract(ctx context.Context, data []byte, contentType, fileName string) (*models.ExtractionResult, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return s.ExtractImage(ctx, data, fileName)
	case contentType == "application/pdf":
		return s.ExtractPDF(ctx, data)
	case contentType == "text/csv" || strings.HasSuffix(strings.ToLower(fileName), ".csv"):
		return s.ExtractCSV(ctx, string(data))
	default:
		return s.ExtractText(ctx, string(data))
	}
}

// ExtractImage sends the image with the fixed instruction to the oracle and
// decodes the response.
func (s *ExtractionService) ExtractImage(ctx context.Context, image []byte, fileName string) (*models.ExtractionResult, error) {
	if fileName == "" {
		fileName = "document.png"
	}
	raw, err := s.oracle.CompleteImage(ctx, extractionPrompt, image, fileName)
	if err != nil {
		return nil, err
	}
	result, err := ParseExtraction(raw)
	if err != nil {
		return nil, err
	}
	return s.finalize(result), nil
}

// ExtractText routes pre-extracted or plain text through the oracle.
func (s *ExtractionService) ExtractText(ctx context.Context, text string) (*models.ExtractionResult, error) {
	prompt := extractionPrompt + "\n\nDocument text:\n" + text
	raw, err := s.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	result, err := ParseExtraction(raw)
	if err != nil {
		return nil, err
	}
	return s.finalize(result), nil
}

// ExtractPDF tries OCR text first and falls back to per-page vision
// extraction for scanned documents. Without a rasterizer or OCR engine the
// PDF degrades to an opaque stub through the text path rather than failing
// the request.
func (s *ExtractionService) ExtractPDF(ctx context.Context, pdf []byte) (*models.ExtractionResult, error) {
	if s.rasterizer == nil || s.ocr == nil {
		s.logger.Warn("PDF OCR capability unavailable, using text stub")
		return s.ExtractText(ctx, pdfStubMessage)
	}

	pages, err := s.rasterizer.RenderPages(pdf)
	if err != nil {
		return nil, fmt.Errorf("pdf rasterization: %w", err)
	}

	return s.runStrategies(ctx, []strategy{
		{name: "ocr-text", run: func(ctx context.Context) (*models.ExtractionResult, outcome, error) {
			return s.pdfOCRText(ctx, pages)
		}},
		{name: "vision-pages", run: func(ctx context.Context) (*models.ExtractionResult, outcome, error) {
			return s.pdfVisionPages(ctx, pages)
		}},
	})
}

// ExtractCSV tries the deterministic normalizer and falls back to the AI
// path with a bounded prefix of the file when column detection is not
// viable.
func (s *ExtractionService) ExtractCSV(ctx context.Context, csvText string) (*models.ExtractionResult, error) {
	return s.runStrategies(ctx, []strategy{
		{name: "csv-heuristic", run: func(ctx context.Context) (*models.ExtractionResult, outcome, error) {
			result, err := s.csv.Normalize(csvText)
			if err != nil {
				if errors.Is(err, ErrNotViable) {
					return nil, outcomeSkip, err
				}
				return nil, outcomeFatal, err
			}
			return s.finalize(result), outcomeSuccess, nil
		}},
		{name: "csv-ai", run: func(ctx context.Context) (*models.ExtractionResult, outcome, error) {
			prefix := csvText
			if len(prefix) > maxCSVPromptLen {
				prefix = prefix[:maxCSVPromptLen]
			}
			prompt := extractionPrompt + "\n\nThis is a CSV file:\n" + prefix
			raw, err := s.oracle.Complete(ctx, prompt)
			if err != nil {
				return nil, outcomeFatal, err
			}
			result, err := ParseExtraction(raw)
			if err != nil {
				return nil, outcomeFatal, err
			}
			return s.finalize(result), outcomeSuccess, nil
		}},
	})
}

// runStrategies walks an ordered strategy list, stopping at the first
// success or fatal error. A clean fall-through means nothing could extract.
func (s *ExtractionService) runStrategies(ctx context.Context, strategies []strategy) (*models.ExtractionResult, error) {
	for _, st := range strategies {
		result, oc, err := st.run(ctx)
		switch oc {
		case outcomeSuccess:
			return result, nil
		case outcomeFatal:
			return nil, err
		case outcomeSkip:
			s.logger.Debug("Extraction strategy skipped",
				zap.String("strategy", st.name),
				zap.Error(err),
			)
		}
	}
	return nil, ErrNoExtractableContent
}

// pdfOCRText OCRs every page and routes the concatenated text through the
// AI text path if enough came out. Individual page failures are skipped.
func (s *ExtractionService) pdfOCRText(ctx context.Context, pages [][]byte) (*models.ExtractionResult, outcome, error) {
	var builder strings.Builder
	for i, page := range pages {
		text, err := s.ocr.ImageText(page)
		if err != nil {
			s.logger.Warn("OCR failed for page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	fullText := strings.TrimSpace(builder.String())
	if len(fullText) <= minOCRTextLen {
		return nil, outcomeSkip, fmt.Errorf("OCR yielded only %d characters", len(fullText))
	}

	result, err := s.ExtractText(ctx, fullText)
	if err != nil {
		return nil, outcomeFatal, err
	}
	return result, outcomeSuccess, nil
}

// pdfVisionPages sends each page image to the oracle, capped at
// maxVisionPages, and merges the per-page results: the first successful
// page provides the document metadata, every later page contributes its
// transactions, and the summary is recomputed over the whole document.
// A page that fails, either at the oracle or at decode, is skipped rather
// than fatal.
func (s *ExtractionService) pdfVisionPages(ctx context.Context, pages [][]byte) (*models.ExtractionResult, outcome, error) {
	limit := len(pages)
	if limit > maxVisionPages {
		limit = maxVisionPages
	}

	var merged *models.ExtractionResult
	for i := 0; i < limit; i++ {
		raw, err := s.oracle.CompleteImage(ctx, extractionPrompt, pages[i], fmt.Sprintf("page-%d.png", i+1))
		if err != nil {
			s.logger.Warn("Vision extraction failed for page", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		result, err := ParseExtraction(raw)
		if err != nil {
			s.logger.Warn("Unparseable vision output for page", zap.Int("page", i+1), zap.Error(err))
			continue
		}

		if merged == nil {
			merged = result
		} else {
			merged.Transactions = append(merged.Transactions, result.Transactions...)
		}
	}

	if merged == nil {
		return nil, outcomeFatal, fmt.Errorf("%w: every PDF page failed extraction", ErrNoExtractableContent)
	}

	merged.Summary = fmt.Sprintf("PDF with %d transactions across %d pages", len(merged.Transactions), len(pages))
	return s.finalize(merged), outcomeSuccess, nil
}

// finalize enforces the draft invariants on whatever came back from a
// strategy: dates default to the processing date, amounts are non-negative
// magnitudes (negative raw values flip to expense), and categories outside
// the closed set are coerced to Other.
func (s *ExtractionService) finalize(result *models.ExtractionResult) *models.ExtractionResult {
	today := s.now().Format("2006-01-02")
	for i := range result.Transactions {
		tx := &result.Transactions[i]

		if strings.TrimSpace(tx.Date) == "" {
			tx.Date = today
		}
		if tx.Amount < 0 {
			tx.Amount = -tx.Amount
			tx.Type = models.TypeExpense
		}
		if tx.Type != models.TypeExpense && tx.Type != models.TypeIncome {
			tx.Type = models.TypeExpense
		}
		if !models.ValidCategory(tx.Category) {
			s.logger.Warn("Unknown category from extraction, coercing to Other",
				zap.String("category", string(tx.Category)),
			)
			tx.Category = models.CategoryOther
		}
	}
	return result
}
