package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"finsight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOracle scripts Complete and CompleteImage responses and records the
// prompts it saw.
type fakeOracle struct {
	completeResponses []string
	completeErr       error
	imageResponses    []string
	imageErrs         []error

	prompts      []string
	imagePrompts []string
	imageFiles   []string

	completeCalls int
	imageCalls    int
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.completeErr != nil {
		return "", f.completeErr
	}
	idx := f.completeCalls
	f.completeCalls++
	if idx >= len(f.completeResponses) {
		return "", fmt.Errorf("%w: no scripted response", ErrOracle)
	}
	return f.completeResponses[idx], nil
}

func (f *fakeOracle) CompleteImage(ctx context.Context, prompt string, image []byte, fileName string) (string, error) {
	f.imagePrompts = append(f.imagePrompts, prompt)
	f.imageFiles = append(f.imageFiles, fileName)
	idx := f.imageCalls
	f.imageCalls++
	if idx < len(f.imageErrs) && f.imageErrs[idx] != nil {
		return "", f.imageErrs[idx]
	}
	if idx >= len(f.imageResponses) {
		return "", fmt.Errorf("%w: no scripted response", ErrOracle)
	}
	return f.imageResponses[idx], nil
}

type fakeRasterizer struct {
	pages [][]byte
	err   error
}

func (f *fakeRasterizer) RenderPages(pdf []byte) ([][]byte, error) {
	return f.pages, f.err
}

type fakeOCR struct {
	texts []string
	errs  []error
	calls int
}

func (f *fakeOCR) ImageText(image []byte) (string, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.texts) {
		return f.texts[idx], nil
	}
	return "", nil
}

func extractionJSON(descriptions ...string) string {
	items := make([]string, len(descriptions))
	for i, d := range descriptions {
		items[i] = fmt.Sprintf(`{"date":"2024-05-01","description":"%s","amount":100,"category":"Food","type":"expense"}`, d)
	}
	return fmt.Sprintf(`{"doc_type":"receipt","currency":"SEK","summary":"test","transactions":[%s]}`, strings.Join(items, ","))
}

func newTestEngine(oracle Completer, rasterizer PDFRasterizer, ocr OCREngine) *ExtractionService {
	svc := NewExtractionService(oracle, NewCSVService("SEK", zap.NewNop()), rasterizer, ocr, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestExtractDispatch(t *testing.T) {
	oracle := &fakeOracle{
		completeResponses: []string{extractionJSON("text")},
		imageResponses:    []string{extractionJSON("image")},
	}
	engine := newTestEngine(oracle, nil, nil)
	ctx := context.Background()

	result, err := engine.Extract(ctx, []byte("img-bytes"), "image/png", "receipt.png")
	require.NoError(t, err)
	assert.Equal(t, "image", result.Transactions[0].Description)
	assert.Equal(t, []string{"receipt.png"}, oracle.imageFiles)

	result, err = engine.Extract(ctx, []byte("plain statement text"), "text/plain", "statement.txt")
	require.NoError(t, err)
	assert.Equal(t, "text", result.Transactions[0].Description)
}

func TestExtractImageOracleError(t *testing.T) {
	oracle := &fakeOracle{imageErrs: []error{fmt.Errorf("%w: down", ErrOracle)}}
	engine := newTestEngine(oracle, nil, nil)

	_, err := engine.ExtractImage(context.Background(), []byte("img"), "r.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOracle))
}

func TestExtractTextMalformedOutput(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{"sorry, I cannot do that"}}
	engine := newTestEngine(oracle, nil, nil)

	_, err := engine.ExtractText(context.Background(), "some text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

func TestExtractPDFWithoutOCRFallsBackToStub(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{extractionJSON("stub")}}
	engine := newTestEngine(oracle, nil, nil)

	result, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "stub", result.Transactions[0].Description)
	require.Len(t, oracle.prompts, 1)
	assert.Contains(t, oracle.prompts[0], pdfStubMessage)
}

func TestExtractPDFOCRTextPath(t *testing.T) {
	longText := strings.Repeat("Invoice line with amounts. ", 10)
	oracle := &fakeOracle{completeResponses: []string{extractionJSON("from-ocr")}}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("p1"), []byte("p2")}}
	ocr := &fakeOCR{texts: []string{longText, longText}}
	engine := newTestEngine(oracle, rasterizer, ocr)

	result, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "from-ocr", result.Transactions[0].Description)
	assert.Zero(t, oracle.imageCalls)
}

func TestExtractPDFVisionFallbackMergesPages(t *testing.T) {
	// OCR yields almost nothing, so the engine goes per-page vision.
	oracle := &fakeOracle{
		imageResponses: []string{extractionJSON("page1"), extractionJSON("page2a", "page2b")},
	}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("p1"), []byte("p2")}}
	ocr := &fakeOCR{texts: []string{"short", ""}}
	engine := newTestEngine(oracle, rasterizer, ocr)

	result, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "page1", result.Transactions[0].Description)
	assert.Equal(t, "page2b", result.Transactions[2].Description)
	assert.Equal(t, "PDF with 3 transactions across 2 pages", result.Summary)
	assert.Equal(t, []string{"page-1.png", "page-2.png"}, oracle.imageFiles)
}

func TestExtractPDFVisionSkipsFailedPage(t *testing.T) {
	oracle := &fakeOracle{
		imageErrs:      []error{fmt.Errorf("%w: flaky", ErrOracle), nil},
		imageResponses: []string{"", extractionJSON("page2")},
	}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("p1"), []byte("p2")}}
	ocr := &fakeOCR{}
	engine := newTestEngine(oracle, rasterizer, ocr)

	result, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "page2", result.Transactions[0].Description)
}

func TestExtractPDFVisionCapsPages(t *testing.T) {
	oracle := &fakeOracle{
		imageResponses: []string{extractionJSON("p1"), extractionJSON("p2"), extractionJSON("p3")},
	}
	pages := [][]byte{[]byte("1"), []byte("2"), []byte("3"), []byte("4"), []byte("5")}
	engine := newTestEngine(oracle, &fakeRasterizer{pages: pages}, &fakeOCR{})

	result, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, maxVisionPages, oracle.imageCalls)
	// The summary still reports the full page count.
	assert.Equal(t, "PDF with 3 transactions across 5 pages", result.Summary)
}

func TestExtractPDFAllPagesFail(t *testing.T) {
	oracle := &fakeOracle{
		imageErrs: []error{fmt.Errorf("%w: down", ErrOracle), fmt.Errorf("%w: down", ErrOracle)},
	}
	engine := newTestEngine(oracle, &fakeRasterizer{pages: [][]byte{[]byte("1"), []byte("2")}}, &fakeOCR{})

	_, err := engine.ExtractPDF(context.Background(), []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoExtractableContent))
}

func TestExtractPDFRasterizationError(t *testing.T) {
	engine := newTestEngine(&fakeOracle{}, &fakeRasterizer{err: errors.New("corrupt")}, &fakeOCR{})

	_, err := engine.ExtractPDF(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterization")
}

func TestExtractCSVHeuristicFirst(t *testing.T) {
	oracle := &fakeOracle{}
	engine := newTestEngine(oracle, nil, nil)

	result, err := engine.ExtractCSV(context.Background(), "date,amount\n2024-01-05,-120.50\n")
	require.NoError(t, err)
	assert.Equal(t, models.DocTypeCSV, result.DocType)
	require.Len(t, result.Transactions, 1)
	assert.Zero(t, oracle.completeCalls)
}

func TestExtractCSVFallsBackToAI(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{extractionJSON("ai-row")}}
	engine := newTestEngine(oracle, nil, nil)

	// No recognizable columns forces the AI path.
	result, err := engine.ExtractCSV(context.Background(), "foo;bar\n1;2\n")
	require.NoError(t, err)
	assert.Equal(t, "ai-row", result.Transactions[0].Description)
	require.Len(t, oracle.prompts, 1)
	assert.Contains(t, oracle.prompts[0], "This is a CSV file:")
}

func TestExtractCSVAIFallbackTruncatesPrompt(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{extractionJSON("big")}}
	engine := newTestEngine(oracle, nil, nil)

	big := "x,y\n" + strings.Repeat("aaaaaaaaaa\n", 1000)
	_, err := engine.ExtractCSV(context.Background(), big)
	require.NoError(t, err)

	require.Len(t, oracle.prompts, 1)
	marker := "This is a CSV file:\n"
	idx := strings.Index(oracle.prompts[0], marker)
	require.GreaterOrEqual(t, idx, 0)
	assert.Len(t, oracle.prompts[0][idx+len(marker):], maxCSVPromptLen)
}

func TestFinalizeInvariants(t *testing.T) {
	oracle := &fakeOracle{completeResponses: []string{
		`{"doc_type":"invoice","currency":"SEK","summary":"s","transactions":[
			{"date":"","description":"no date","amount":10,"category":"Food","type":"income"},
			{"date":"2024-01-01","description":"negative","amount":-55.5,"category":"Food","type":"income"},
			{"date":"2024-01-01","description":"weird category","amount":10,"category":"Crypto","type":"expense"},
			{"date":"2024-01-01","description":"weird type","amount":10,"category":"Food","type":"transfer"}
		]}`,
	}}
	engine := newTestEngine(oracle, nil, nil)

	result, err := engine.ExtractText(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)

	assert.Equal(t, "2024-06-15", result.Transactions[0].Date)

	assert.Equal(t, 55.5, result.Transactions[1].Amount)
	assert.Equal(t, models.TypeExpense, result.Transactions[1].Type)

	assert.Equal(t, models.CategoryOther, result.Transactions[2].Category)

	assert.Equal(t, models.TypeExpense, result.Transactions[3].Type)
}
