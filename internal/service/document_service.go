package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService owns the upload-process lifecycle: it stores the raw file,
// runs the extraction engine over it, normalizes the result into the base
// currency and persists the document together with its transactions.
type DocumentService struct {
	docRepo      *repository.DocumentRepository
	txRepo       *repository.TransactionRepository
	extraction   *ExtractionService
	currency     *CurrencyService
	baseCurrency string
	uploadDir    string
	logger       *zap.Logger
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	txRepo *repository.TransactionRepository,
	extraction *ExtractionService,
	currency *CurrencyService,
	baseCurrency string,
	uploadDir string,
	logger *zap.Logger,
) *DocumentService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &DocumentService{
		docRepo:      docRepo,
		txRepo:       txRepo,
		extraction:   extraction,
		currency:     currency,
		baseCurrency: baseCurrency,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

// UploadDocument stores the file and creates the document record. The
// document type recorded here is provisional, taken from the file extension;
// processing replaces it with what the extraction actually found.
func (s *DocumentService) UploadDocument(ctx context.Context, userID uuid.UUID, file io.Reader, fileName string) (*dto.DocumentResponse, error) {
	fileID := uuid.New()
	ext := filepath.Ext(fileName)
	newFileName := fileID.String() + ext
	filePath := filepath.Join(s.uploadDir, newFileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	fileSize, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	now := time.Now()
	doc := &models.Document{
		ID:        fileID,
		UserID:    userID,
		Type:      provisionalDocType(fileName),
		FileName:  fileName,
		FileSize:  fileSize,
		FileURL:   "/uploads/" + newFileName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	return documentResponse(doc), nil
}

// ProcessDocument runs the extraction engine over a previously uploaded
// file, converts the drafts to the base currency and persists everything.
func (s *DocumentService) ProcessDocument(ctx context.Context, userID uuid.UUID, documentID uuid.UUID) (*dto.ProcessDocumentResponse, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}

	if doc.UserID != userID {
		return nil, fmt.Errorf("unauthorized")
	}

	filePath := filepath.Join(s.uploadDir, filepath.Base(doc.FileURL))
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}

	contentType := contentTypeFor(doc.FileName)
	result, err := s.extraction.Extract(ctx, data, contentType, doc.FileName)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	drafts := s.currency.Convert(ctx, result.Transactions, result.Currency, s.baseCurrency)

	extractedText := ""
	if strings.HasPrefix(contentType, "text/") {
		extractedText = sanitizeUTF8(string(data))
	}
	if err := s.docRepo.UpdateExtraction(ctx, documentID, result.DocType, sanitizeUTF8(result.Summary), extractedText); err != nil {
		s.logger.Warn("Failed to update document extraction", zap.Error(err))
	}
	doc.Type = result.DocType
	doc.Summary = result.Summary
	doc.ExtractedText = extractedText

	now := time.Now()
	transactions := make([]*models.Transaction, 0, len(drafts))
	for _, draft := range drafts {
		tx := &models.Transaction{
			ID:          uuid.New(),
			DocumentID:  documentID,
			UserID:      userID,
			Description: sanitizeUTF8(draft.Description),
			Amount:      draft.Amount,
			Currency:    s.baseCurrency,
			Category:    draft.Category,
			Type:        draft.Type,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if date, err := time.Parse("2006-01-02", draft.Date); err == nil {
			tx.Date = date
		} else {
			tx.Date = now
		}

		tx.OriginalAmount = draft.OriginalAmount
		if draft.OriginalCurrency != "" {
			oc := draft.OriginalCurrency
			tx.OriginalCurrency = &oc
		}

		transactions = append(transactions, tx)
	}

	if err := s.txRepo.CreateBatch(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	txResponses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		txResponses[i] = transactionResponse(tx)
	}

	return &dto.ProcessDocumentResponse{
		Document:     *documentResponse(doc),
		Currency:     s.baseCurrency,
		Transactions: txResponses,
	}, nil
}

// ListDocuments lists user's documents
func (s *DocumentService) ListDocuments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.DocumentResponse, error) {
	docs, err := s.docRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = documentResponse(doc)
	}

	return responses, nil
}

func documentResponse(doc *models.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:            doc.ID.String(),
		Type:          string(doc.Type),
		FileName:      doc.FileName,
		FileSize:      doc.FileSize,
		FileURL:       doc.FileURL,
		Summary:       doc.Summary,
		ExtractedText: doc.ExtractedText,
		CreatedAt:     doc.CreatedAt.Format(time.RFC3339),
	}
}

func transactionResponse(tx *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:             tx.ID.String(),
		Date:           tx.Date.Format("2006-01-02"),
		Description:    tx.Description,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
		Category:       string(tx.Category),
		Type:           string(tx.Type),
		OriginalAmount: tx.OriginalAmount,
		CreatedAt:      tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.OriginalCurrency != nil {
		resp.OriginalCurrency = *tx.OriginalCurrency
	}
	return resp
}

func contentTypeFor(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".csv" {
		return "text/csv"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "text/plain"
}

func provisionalDocType(fileName string) models.DocType {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return models.DocTypeCSV
	case ".png", ".jpg", ".jpeg", ".webp":
		return models.DocTypeReceipt
	default:
		return models.DocTypeBankStatement
	}
}
