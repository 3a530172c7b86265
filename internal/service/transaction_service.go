package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"finsight/internal/dto"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionService struct {
	txRepo *repository.TransactionRepository
	logger *zap.Logger
}

func NewTransactionService(txRepo *repository.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		txRepo: txRepo,
		logger: logger,
	}
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]dto.TransactionResponse, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = transactionResponse(tx)
	}
	return responses, nil
}

// ExportCSV renders the user's transactions as a CSV file.
func (s *TransactionService) ExportCSV(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]byte, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "description", "amount", "currency", "category", "type"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Currency,
			string(tx.Category),
			string(tx.Type),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
