package repos

import (
	"aurelia/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, name, description, price, images_json,
    COALESCE(materials_json,'[]') AS materials_json,
    COALESCE(dimensions,'') AS dimensions,
    in_stock, featured, active,
    created_at, COALESCE(updated_at,'') AS updated_at`

// ListActive returns the live catalog collection in insertion order. The
// catalog query pipeline filters and sorts it in memory.
func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  WHERE active = 1
  ORDER BY created_at, id
`)
	return out, err
}

// ListFeatured returns active featured products for the home page.
func (r *ProductRepo) ListFeatured(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  WHERE active = 1 AND featured = 1
  ORDER BY created_at, id
  LIMIT ?
`, limit)
	return out, err
}

// ListAll returns every product including deactivated ones (admin view).
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT `+productCols+`
  FROM products
  ORDER BY created_at, id
`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT `+productCols+`
  FROM products
  WHERE id = ?
`, id)
	return p, err
}

// ---------- Admin mutations ----------

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
  INSERT INTO products(id, category_id, name, description, price, images_json, materials_json, dimensions, in_stock, featured, active, created_at)
  VALUES(?,?,?,?,?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.ImagesJSON, p.MaterialsJSON, p.Dimensions, p.InStock, p.Featured)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
  UPDATE products
  SET category_id=?, name=?, description=?, price=?, dimensions=?,
      in_stock=?, featured=?, updated_at=CURRENT_TIMESTAMP
  WHERE id=?
`, p.CategoryID, p.Name, p.Description, p.Price, p.Dimensions, p.InStock, p.Featured, p.ID)
	return err
}

func (r *ProductRepo) SetStock(id string, inStock bool) error {
	_, err := r.db.Exec(`UPDATE products SET in_stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, inStock, id)
	return err
}

// Deactivate soft-deletes a product; placed orders keep their snapshots.
func (r *ProductRepo) Deactivate(id string) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *ProductRepo) CountActive() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE active = 1`)
	return n, err
}
