package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrCategoryNotFound = errors.New("category does not exist")

type Repo interface {
	Store(ctx context.Context, userId int, category Category) (int, error)
	Get(ctx context.Context, userId int, id int) (Category, error)
	GetAll(ctx context.Context, userId int, kind Kind) ([]Category, error)
	Update(ctx context.Context, userId int, category Category) (bool, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO categories (user_id, name, kind, icon, color)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, userId, category.Name, category.Kind, category.Icon, category.Color).Scan(&id)
	if err != nil {
		log.Errorf("failed to store category: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, id int) (Category, error) {
	query := `SELECT id, name, kind, icon, color, created_at
				FROM categories WHERE id = $1 AND user_id = $2`
	var category Category
	err := r.db.QueryRow(ctx, query, id, userId).Scan(
		&category.Id,
		&category.Name,
		&category.Kind,
		&category.Icon,
		&category.Color,
		&category.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		log.Errorf("failed to get category: %v", err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int, kind Kind) ([]Category, error) {
	query := `SELECT id, name, kind, icon, color, created_at
				FROM categories WHERE user_id = $1`
	args := []any{userId}
	if kind != "" {
		query += " AND kind = $2"
		args = append(args, kind)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("failed to query categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(
			&category.Id,
			&category.Name,
			&category.Kind,
			&category.Icon,
			&category.Color,
			&category.CreatedAt,
		); err != nil {
			log.Errorf("failed to scan category: %v", err)
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over categories: %v", err)
		return nil, err
	}
	return categories, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, category Category) (bool, error) {
	query := `UPDATE categories SET name = $1, icon = $2, color = $3
				WHERE id = $4 AND user_id = $5`
	tag, err := r.db.Exec(ctx, query, category.Name, category.Icon, category.Color, category.Id, userId)
	if err != nil {
		log.Errorf("failed to update category: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM categories WHERE id = $1 AND user_id = $2", id, userId)
	if err != nil {
		log.Errorf("failed to delete category: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
