package repos

import (
	"database/sql"
	"time"

	"aurelia/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLineRow is a cart line joined with its live product. LineTotal always
// derives from the current catalog price; PriceAtAdd records what the
// shopper saw when the line was created.
type CartLineRow struct {
	LineID     string       `db:"line_id"`
	ProductID  string       `db:"product_id"`
	Name       string       `db:"name"`
	Qty        int          `db:"qty"`
	PriceAtAdd domain.Money `db:"price_at_add"`
	Price      domain.Money `db:"price"`
	InStock    bool         `db:"in_stock"`
	LineTotal  domain.Money `db:"line_total"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// UpsertLine merges by product: an existing line for the product gains qty,
// otherwise a new line is created under the given line id.
func (r *CartRepo) UpsertLine(lineID, cartID, productID string, qty int, price domain.Money) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,qty,price_at_add,created_at)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, lineID, cartID, productID, qty, price)
	return err
}

// SetLineQty overwrites the quantity of one line. Returns sql.ErrNoRows when
// the line does not belong to the cart.
func (r *CartRepo) SetLineQty(cartID, lineID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND cart_id = ?
	`, qty, lineID, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteLine removes a line; deleting an absent line is a no-op.
func (r *CartRepo) DeleteLine(cartID, lineID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND cart_id = ?`, lineID, cartID)
	return err
}

// PruneInactive drops lines whose product has been deactivated; such lines
// are invalid and never reach totals or checkout.
func (r *CartRepo) PruneInactive(cartID string) error {
	_, err := r.db.Exec(`
		DELETE FROM cart_items
		WHERE cart_id = ?
		  AND product_id IN (SELECT id FROM products WHERE active = 0)
	`, cartID)
	return err
}

func (r *CartRepo) Lines(cartID string) ([]CartLineRow, error) {
	var out []CartLineRow
	err := r.db.Select(&out, `
	  SELECT ci.id AS line_id, ci.product_id, p.name, ci.qty, ci.price_at_add,
	         p.price, p.in_stock, (ci.qty * p.price) AS line_total
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ? AND p.active = 1
	  ORDER BY ci.created_at, ci.id
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin folds the anonymous session cart into the user's cart and
// binds the session to the user.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	// No anon cart: just link the session.
	if !anonID.Valid {
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	// User has no cart yet: convert the anon cart.
	if !userCartID.Valid || userCartID.String == anonID.String {
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	// Merge lines by product into the user cart.
	type line struct {
		ID         string       `db:"id"`
		ProductID  string       `db:"product_id"`
		Qty        int          `db:"qty"`
		PriceAtAdd domain.Money `db:"price_at_add"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT id, product_id, qty, price_at_add FROM cart_items WHERE cart_id=?`, anonID.String); err != nil {
		return err
	}

	for _, it := range lines {
		_, err := tx.Exec(`
			INSERT INTO cart_items(id, cart_id, product_id, qty, price_at_add, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(cart_id, product_id) DO UPDATE SET
			  qty = cart_items.qty + excluded.qty,
			  updated_at = CURRENT_TIMESTAMP
		`, it.ID, userCartID.String, it.ProductID, it.Qty, it.PriceAtAdd)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, anonID.String); err != nil {
		return err
	}
	_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)

	return tx.Commit()
}
