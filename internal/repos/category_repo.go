package repos

import (
	"aurelia/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
  SELECT
    id,
    name,
    created_at,
    COALESCE(updated_at,'') AS updated_at
  FROM categories
  ORDER BY name
`)
	return out, err
}

// CountProducts returns the number of active products per category id.
func (r *CategoryRepo) CountProducts() (map[string]int, error) {
	var rows []struct {
		ID string `db:"category_id"`
		N  int    `db:"n"`
	}
	if err := r.db.Select(&rows, `
  SELECT category_id, COUNT(*) AS n
  FROM products
  WHERE active = 1
  GROUP BY category_id
`); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.N
	}
	return out, nil
}
