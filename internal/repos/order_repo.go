package repos

import (
	"database/sql"

	"aurelia/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Listing summary (admin + reporting) ----------
type OrderSummary struct {
	ID            string             `db:"id"`
	SessionID     string             `db:"session_id"`
	UserID        string             `db:"user_id"`
	CustomerName  string             `db:"customer_name"`
	CustomerEmail string             `db:"customer_email"`
	Total         domain.Money       `db:"total"`
	Status        domain.OrderStatus `db:"status"`
	CreatedAt     string             `db:"created_at"`
}

// ---------- Order detail (used by /order/:id) ----------
type OrderRow struct {
	ID        string             `db:"id"`
	SessionID string             `db:"session_id"`
	UserID    string             `db:"user_id"`
	Customer  string             `db:"customer_name"`
	Email     string             `db:"customer_email"`
	Address   string             `db:"shipping_address"`
	Payment   string             `db:"payment_method"`
	Subtotal  domain.Money       `db:"subtotal"`
	Shipping  domain.Money       `db:"shipping"`
	Total     domain.Money       `db:"total"`
	Status    domain.OrderStatus `db:"status"`
	CreatedAt string             `db:"created_at"`
}

// OrderItemRow is a snapshot line: name and price were copied by value at
// checkout, so later catalog edits never change a placed order.
type OrderItemRow struct {
	ProductID string       `db:"product_id"`
	Name      string       `db:"name"`
	Qty       int          `db:"qty"`
	Price     domain.Money `db:"price"`
	Subtotal  domain.Money `db:"subtotal"`
}

// SnapshotItem is one line handed to CreateWithItems at checkout.
type SnapshotItem struct {
	ProductID string
	Name      string
	Qty       int
	Price     domain.Money
}

// CreateWithItems inserts the order header plus its snapshot lines and
// clears the source cart in one transaction.
func (r *OrderRepo) CreateWithItems(orderID, sessionID, cartID, name, email, address, payment string,
	subtotal, shipping, total domain.Money, items []SnapshotItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_email, shipping_address, payment_method,
	     subtotal, shipping, total, status, created_at)
	  VALUES
	    (?,  ?,          ?,             ?,              ?,                ?,
	     ?,        ?,        ?,     'PENDING', CURRENT_TIMESTAMP)
	`, orderID, sessionID, name, email, address, payment, subtotal, shipping, total); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, qty, price)
		  VALUES(?, ?, ?, ?, ?)
		`, orderID, it.ProductID, it.Name, it.Qty, it.Price); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}

	return tx.Commit()
}

// ---------- Used by order page/admin ----------

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id,
		       o.customer_name, o.customer_email, o.shipping_address, o.payment_method,
		       o.subtotal, o.shipping, o.total, o.status, o.created_at
		FROM orders o
		LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT product_id, name, qty, price, (qty * price) AS subtotal
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) GetStatus(orderID string) (domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := r.db.Get(&s, `SELECT status FROM orders WHERE id = ?`, orderID)
	return s, err
}

const summaryCols = `
		o.id, o.session_id, COALESCE(s.user_id,'') AS user_id,
		o.customer_name, o.customer_email, o.total, o.status, o.created_at`

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT `+summaryCols+`
		FROM orders o LEFT JOIN sessions s ON s.id = o.session_id
		ORDER BY datetime(o.created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListAll returns every order, newest first; reporting aggregates consume it.
func (r *OrderRepo) ListAll() ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT `+summaryCols+`
		FROM orders o LEFT JOIN sessions s ON s.id = o.session_id
		ORDER BY datetime(o.created_at) DESC
	`)
	return out, err
}

// ListByUser returns orders for a given user via session linkage, order
// preserved (newest first).
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT `+summaryCols+`
		FROM orders o JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to a given session id (anon or
// pre-login orders).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT `+summaryCols+`
		FROM orders o LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.session_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, sessionID)
	return out, err
}

// UpdateStatus writes the new status only when the stored status still
// matches the expected one; the transition was validated upstream.
func (r *OrderRepo) UpdateStatus(id string, from, to domain.OrderStatus) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
