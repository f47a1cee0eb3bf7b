package budget

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget does not exist")

type BudgetRepo interface {
	Store(ctx context.Context, userId int, budget Budget) (int, error)
	Get(ctx context.Context, userId int, id int) (Budget, error)
	GetAll(ctx context.Context, userId int, includeInactive bool) ([]Budget, error)
	// FindActive returns the active budget for a (category, period) tuple, or ErrBudgetNotFound.
	FindActive(ctx context.Context, userId int, categoryId int, period Period) (Budget, error)
	Update(ctx context.Context, userId int, budget Budget) (bool, error)
	Delete(ctx context.Context, userId int, budgetId int) (bool, error)
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

func (bi *BudgetRepoImpl) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	query := `INSERT INTO budgets (user_id, category_id, amount, period, active, notes)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int
	err := bi.db.QueryRow(ctx, query,
		userId,
		budget.CategoryId,
		budget.Amount,
		budget.Period,
		budget.Active,
		budget.Notes,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to store budget: %v", err)
		return 0, err
	}
	return id, nil
}

func (bi *BudgetRepoImpl) Get(ctx context.Context, userId int, id int) (Budget, error) {
	query := `SELECT id, category_id, amount, period, active, notes, created_at
				FROM budgets WHERE id = $1 AND user_id = $2`
	return bi.scanBudget(bi.db.QueryRow(ctx, query, id, userId))
}

func (bi *BudgetRepoImpl) FindActive(ctx context.Context, userId int, categoryId int, period Period) (Budget, error) {
	query := `SELECT id, category_id, amount, period, active, notes, created_at
				FROM budgets WHERE user_id = $1 AND category_id = $2 AND period = $3 AND active`
	return bi.scanBudget(bi.db.QueryRow(ctx, query, userId, categoryId, period))
}

func (bi *BudgetRepoImpl) scanBudget(row pgx.Row) (Budget, error) {
	var budget Budget
	err := row.Scan(
		&budget.Id,
		&budget.CategoryId,
		&budget.Amount,
		&budget.Period,
		&budget.Active,
		&budget.Notes,
		&budget.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		log.Errorf("failed to get budget: %v", err)
		return Budget{}, err
	}
	return budget, nil
}

func (bi *BudgetRepoImpl) GetAll(ctx context.Context, userId int, includeInactive bool) ([]Budget, error) {
	query := `SELECT id, category_id, amount, period, active, notes, created_at
				FROM budgets WHERE user_id = $1`
	if !includeInactive {
		query += " AND active"
	}
	query += " ORDER BY id"

	rows, err := bi.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query budgets: %v", err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		var budget Budget
		if err := rows.Scan(
			&budget.Id,
			&budget.CategoryId,
			&budget.Amount,
			&budget.Period,
			&budget.Active,
			&budget.Notes,
			&budget.CreatedAt,
		); err != nil {
			log.Errorf("could not scan budget: %v", err)
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over rows: %v", err)
		return nil, err
	}
	return budgets, nil
}

func (bi *BudgetRepoImpl) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	query := `UPDATE budgets SET category_id = $1, amount = $2, period = $3, active = $4, notes = $5
				WHERE id = $6 AND user_id = $7`
	tag, err := bi.db.Exec(ctx, query,
		budget.CategoryId,
		budget.Amount,
		budget.Period,
		budget.Active,
		budget.Notes,
		budget.Id,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update budget: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (bi *BudgetRepoImpl) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	tag, err := bi.db.Exec(ctx, "DELETE FROM budgets WHERE id = $1 AND user_id = $2", budgetId, userId)
	if err != nil {
		log.Errorf("failed to delete budget: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
