package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert sets the monthly limit for one category, replacing any previous
// value.
func (r *BudgetRepository) Upsert(ctx context.Context, budget *models.Budget) error {
	query := squirrel.Insert("budgets").
		Columns("id", "user_id", "category", "monthly_limit", "created_at", "updated_at").
		Values(budget.ID, budget.UserID, budget.Category, budget.MonthlyLimit, budget.CreatedAt, budget.UpdatedAt).
		Suffix("ON CONFLICT (user_id, category) DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Budget, error) {
	query := squirrel.Select("id", "user_id", "category", "monthly_limit", "created_at", "updated_at").
		From("budgets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("category ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, &b)
	}

	return budgets, rows.Err()
}
