package transaction

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/finsight/finsight/pkg/category"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, tx Transaction) (int, error)
	Get(ctx context.Context, userId int, id int) (Transaction, error)
	Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, userId int, tx Transaction) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
	// MonthlySums returns per (year, month, kind) amount totals within [from, to).
	MonthlySums(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlySum, error)
	// CategoryTotals returns per-category amount totals for one kind within [from, to).
	CategoryTotals(ctx context.Context, userId int, kind category.Kind, from time.Time, to time.Time) ([]CategoryTotal, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, tx Transaction) (int, error) {
	query := `INSERT INTO transactions (user_id, kind, amount, category_id, category_label, occurred_on, description)
				VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		tx.Kind,
		tx.Amount,
		nullableId(tx.CategoryRef),
		nullableLabel(tx.CategoryRef),
		tx.Date,
		tx.Description,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to store transaction: %v", err)
		return 0, err
	}
	return id, nil
}

const selectColumns = `t.id, t.kind, t.amount, t.category_id, t.category_label, t.occurred_on, t.description, t.created_at,
				c.id, c.name, c.kind, c.icon, c.color`

func (r *RepoImpl) Get(ctx context.Context, userId int, id int) (Transaction, error) {
	query := `SELECT ` + selectColumns + `
				FROM transactions t
				LEFT JOIN categories c ON c.id = t.category_id
				WHERE t.id = $1 AND t.user_id = $2`
	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id, userId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		log.Errorf("failed to get transaction: %v", err)
		return Transaction{}, err
	}
	return tx, nil
}

func (r *RepoImpl) Find(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	query := `SELECT ` + selectColumns + `
				FROM transactions t
				LEFT JOIN categories c ON c.id = t.category_id
				WHERE t.user_id = $1`
	args := []any{userId}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += ` AND t.kind = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND t.occurred_on >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND t.occurred_on < $` + strconv.Itoa(len(args))
	}
	if filter.CategoryId != 0 {
		args = append(args, filter.CategoryId)
		query += ` AND t.category_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY t.occurred_on`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("failed to query transactions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			log.Errorf("failed to scan transaction: %v", err)
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over transactions: %v", err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, tx Transaction) (bool, error) {
	query := `UPDATE transactions SET kind = $1, amount = $2, category_id = $3, category_label = $4,
				occurred_on = $5, description = $6
				WHERE id = $7 AND user_id = $8`
	tag, err := r.db.Exec(ctx, query,
		tx.Kind,
		tx.Amount,
		nullableId(tx.CategoryRef),
		nullableLabel(tx.CategoryRef),
		tx.Date,
		tx.Description,
		tx.Id,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update transaction: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		log.Errorf("failed to delete transaction: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) MonthlySums(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlySum, error) {
	query := `SELECT EXTRACT(YEAR FROM occurred_on)::int,
				EXTRACT(MONTH FROM occurred_on)::int,
				kind,
				SUM(amount)
				FROM transactions
				WHERE user_id = $1 AND occurred_on >= $2 AND occurred_on < $3
				GROUP BY 1, 2, 3
				ORDER BY 1, 2`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		log.Errorf("failed to query monthly sums: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sums []MonthlySum
	for rows.Next() {
		var sum MonthlySum
		var month int
		if err := rows.Scan(&sum.Year, &month, &sum.Kind, &sum.Total); err != nil {
			log.Errorf("failed to scan monthly sum: %v", err)
			return nil, err
		}
		sum.Month = time.Month(month)
		sums = append(sums, sum)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over monthly sums: %v", err)
		return nil, err
	}
	return sums, nil
}

func (r *RepoImpl) CategoryTotals(ctx context.Context, userId int, kind category.Kind, from time.Time, to time.Time) ([]CategoryTotal, error) {
	query := `SELECT c.id, c.name, c.kind, c.icon, c.color, t.category_label, SUM(t.amount)
				FROM transactions t
				LEFT JOIN categories c ON c.id = t.category_id
				WHERE t.user_id = $1 AND t.kind = $2 AND t.occurred_on >= $3 AND t.occurred_on < $4
				GROUP BY c.id, c.name, c.kind, c.icon, c.color, t.category_label
				ORDER BY SUM(t.amount) DESC`
	rows, err := r.db.Query(ctx, query, userId, kind, from, to)
	if err != nil {
		log.Errorf("failed to query category totals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var total CategoryTotal
		var id sql.NullInt64
		var name, catKind, icon, color, label sql.NullString
		if err := rows.Scan(&id, &name, &catKind, &icon, &color, &label, &total.Total); err != nil {
			log.Errorf("failed to scan category total: %v", err)
			return nil, err
		}
		if id.Valid {
			total.Category = category.Category{
				Id:    int(id.Int64),
				Name:  name.String,
				Kind:  category.Kind(catKind.String),
				Icon:  icon.String,
				Color: color.String,
			}
		} else {
			total.Category = category.Resolve(category.CustomLabel(label.String), nil)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over category totals: %v", err)
		return nil, err
	}
	return totals, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	var categoryId sql.NullInt64
	var categoryLabel sql.NullString
	var cId sql.NullInt64
	var cName, cKind, cIcon, cColor sql.NullString

	err := row.Scan(
		&tx.Id,
		&tx.Kind,
		&tx.Amount,
		&categoryId,
		&categoryLabel,
		&tx.Date,
		&tx.Description,
		&tx.CreatedAt,
		&cId,
		&cName,
		&cKind,
		&cIcon,
		&cColor,
	)
	if err != nil {
		return Transaction{}, err
	}

	if categoryId.Valid {
		tx.CategoryRef = category.RefTo(int(categoryId.Int64))
	} else if categoryLabel.Valid {
		tx.CategoryRef = category.CustomLabel(categoryLabel.String)
	}

	var stored *category.Category
	if cId.Valid {
		stored = &category.Category{
			Id:    int(cId.Int64),
			Name:  cName.String,
			Kind:  category.Kind(cKind.String),
			Icon:  cIcon.String,
			Color: cColor.String,
		}
	}
	tx.Category = category.Resolve(tx.CategoryRef, stored)
	return tx, nil
}

func nullableId(ref category.Ref) any {
	if ref.IsCustom() {
		return nil
	}
	return ref.CategoryId
}

func nullableLabel(ref category.Ref) any {
	if ref.Label == "" {
		return nil
	}
	return ref.Label
}

