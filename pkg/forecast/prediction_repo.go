package forecast

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/finsight/finsight/pkg/category"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PredictionRepo persists predictions. Records are append-only: old rows are
// never superseded or deleted, reads take the most recent per category by
// creation time.
type PredictionRepo interface {
	StoreAll(ctx context.Context, userId int, predictions []Prediction) error
	FindLatest(ctx context.Context, userId int, kind Kind, period Period) ([]Prediction, error)
}

type PredictionRepoImpl struct {
	db *pgxpool.Pool
}

func NewPredictionRepo(db *pgxpool.Pool) *PredictionRepoImpl {
	return &PredictionRepoImpl{db: db}
}

func (r *PredictionRepoImpl) StoreAll(ctx context.Context, userId int, predictions []Prediction) error {
	query := `INSERT INTO predictions (uid, user_id, category_id, category_label, kind, period, amount, confidence,
				valid_from, valid_until, factors, model)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_at`
	for i := range predictions {
		p := &predictions[i]
		factors, err := json.Marshal(p.Factors)
		if err != nil {
			log.Errorf("failed to encode prediction factors: %v", err)
			return err
		}
		err = r.db.QueryRow(ctx, query,
			p.Uid,
			userId,
			nullableId(p.Category),
			nullableLabel(p.Category),
			p.Kind,
			p.Period,
			p.Amount,
			p.Confidence,
			p.ValidFrom,
			p.ValidUntil,
			factors,
			p.Model,
		).Scan(&p.Id, &p.CreatedAt)
		if err != nil {
			log.Errorf("failed to store prediction: %v", err)
			return err
		}
	}
	return nil
}

func (r *PredictionRepoImpl) FindLatest(ctx context.Context, userId int, kind Kind, period Period) ([]Prediction, error) {
	query := `SELECT DISTINCT ON (category_id, category_label, kind, period)
				id, uid, category_id, category_label, kind, period, amount, confidence,
				valid_from, valid_until, factors, model, actual_amount, created_at
				FROM predictions
				WHERE user_id = $1`
	args := []any{userId}
	if kind != "" {
		args = append(args, kind)
		query += ` AND kind = $2`
	}
	if period != "" {
		args = append(args, period)
		query += ` AND period = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY category_id, category_label, kind, period, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("failed to query predictions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var p Prediction
		var categoryId sql.NullInt64
		var categoryLabel sql.NullString
		var factors []byte
		if err := rows.Scan(
			&p.Id,
			&p.Uid,
			&categoryId,
			&categoryLabel,
			&p.Kind,
			&p.Period,
			&p.Amount,
			&p.Confidence,
			&p.ValidFrom,
			&p.ValidUntil,
			&factors,
			&p.Model,
			&p.ActualAmount,
			&p.CreatedAt,
		); err != nil {
			log.Errorf("failed to scan prediction: %v", err)
			return nil, err
		}
		if categoryId.Valid {
			p.Category = category.RefTo(int(categoryId.Int64))
		} else if categoryLabel.Valid {
			p.Category = category.CustomLabel(categoryLabel.String)
		}
		if err := json.Unmarshal(factors, &p.Factors); err != nil {
			log.Errorf("failed to decode prediction factors: %v", err)
			return nil, err
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over predictions: %v", err)
		return nil, err
	}
	return predictions, nil
}

func nullableId(ref category.Ref) any {
	if ref.CategoryId == 0 {
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
