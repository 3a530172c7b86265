package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionColumns = "id, document_id, user_id, transaction_date, description, amount, currency, category, transaction_type, original_amount, original_currency, created_at, updated_at"

// TransactionFilter narrows ListByUserID. Zero values mean "no filter".
type TransactionFilter struct {
	Type     models.TransactionType
	Category models.Category
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch persists all transactions of one document in a single
// statement, so a document's transactions land complete or not at all.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns("id", "document_id", "user_id", "transaction_date", "description", "amount", "currency", "category", "transaction_type", "original_amount", "original_currency", "created_at", "updated_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.DocumentID, tx.UserID, tx.Date, tx.Description, tx.Amount, tx.Currency, tx.Category, tx.Type, tx.OriginalAmount, tx.OriginalCurrency, tx.CreatedAt, tx.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) GetByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("transaction_date DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.queryMany(ctx, query)
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("transaction_date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"transaction_type": filter.Type})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}

	return r.queryMany(ctx, query)
}

func (r *TransactionRepository) queryMany(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.DocumentID, &tx.UserID, &tx.Date, &tx.Description, &tx.Amount, &tx.Currency, &tx.Category, &tx.Type, &tx.OriginalAmount, &tx.OriginalCurrency, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}
