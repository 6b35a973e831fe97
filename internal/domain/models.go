package domain

import "encoding/json"

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Product struct {
	ID            string `db:"id"`
	CategoryID    string `db:"category_id"`
	Name          string `db:"name"`
	Description   string `db:"description"`
	Price         Money  `db:"price"` // minor units
	ImagesJSON    string `db:"images_json"`
	MaterialsJSON string `db:"materials_json"`
	Dimensions    string `db:"dimensions"`
	InStock       bool   `db:"in_stock"`
	Featured      bool   `db:"featured"`
	Active        bool   `db:"active"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

// Images decodes the ordered image references. A product always carries at
// least one; a bad column yields an empty slice rather than an error.
func (p Product) Images() []string {
	var out []string
	_ = json.Unmarshal([]byte(p.ImagesJSON), &out)
	return out
}

// Materials decodes the material labels (order irrelevant).
func (p Product) Materials() []string {
	var out []string
	_ = json.Unmarshal([]byte(p.MaterialsJSON), &out)
	return out
}

type Availability struct {
	Status    string `json:"status"` // IN_STOCK | OUT_OF_STOCK
	ProductID string `json:"productId"`
}
