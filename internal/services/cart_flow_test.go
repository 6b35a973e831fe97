package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"aurelia/internal/domain"
	"aurelia/internal/repos"
	"aurelia/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE categories(id TEXT PRIMARY KEY, name TEXT, created_at TEXT, updated_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, category_id TEXT, name TEXT, description TEXT,
	  price INTEGER, images_json TEXT, materials_json TEXT, dimensions TEXT,
	  in_stock INTEGER DEFAULT 1, featured INTEGER DEFAULT 0, active INTEGER DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE carts(id TEXT PRIMARY KEY, session_id TEXT UNIQUE NOT NULL, user_id TEXT, updated_at TEXT);
	CREATE TABLE cart_items(id TEXT PRIMARY KEY, cart_id TEXT, product_id TEXT,
	  qty INTEGER CHECK (qty >= 1), price_at_add INTEGER, created_at TEXT, updated_at TEXT,
	  UNIQUE(cart_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, session_id TEXT, customer_name TEXT, customer_email TEXT,
	  shipping_address TEXT, payment_method TEXT, subtotal INTEGER, shipping INTEGER, total INTEGER,
	  status TEXT DEFAULT 'PENDING', created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE order_items(order_id TEXT, product_id TEXT, name TEXT, qty INTEGER, price INTEGER,
	  PRIMARY KEY(order_id, product_id));
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT, created_at TEXT, last_seen TEXT);

	INSERT INTO categories(id,name) VALUES ('necklaces','Necklaces'),('earrings','Earrings');
	INSERT INTO products(id,category_id,name,description,price,in_stock,featured) VALUES
	  ('necklace-rose-pearl','necklaces','Rose Gold Pearl Necklace','Handcrafted.',120000,1,1),
	  ('earrings-diamond-stud','earrings','Diamond Stud Earrings','Classic studs.',85000,0,1),
	  ('necklace-silver-locket','necklaces','Sterling Silver Locket','Oval locket.',38000,1,0);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newCartSvc(db *sqlx.DB) *services.CartService {
	return services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db), domain.DefaultShipping)
}

func TestCartAddMergesByProduct(t *testing.T) {
	db := memdb(t)
	svc := newCartSvc(db)
	sid := "sess-merge"

	if err := svc.Add(sid, "necklace-rose-pearl", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(sid, "necklace-rose-pearl", 3); err != nil {
		t.Fatal(err)
	}

	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 1 {
		t.Fatalf("want one merged line, got %d", len(cv.Lines))
	}
	if cv.Lines[0].Qty != 5 {
		t.Fatalf("want qty=5, got %d", cv.Lines[0].Qty)
	}
	if cv.Subtotal != 5*120000 {
		t.Fatalf("want subtotal=600000, got %d", cv.Subtotal)
	}
}

func TestCartAddRejectsOutOfStockAndBadQty(t *testing.T) {
	db := memdb(t)
	svc := newCartSvc(db)
	sid := "sess-reject"

	if err := svc.Add(sid, "earrings-diamond-stud", 1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("out-of-stock add: want ErrInvalidQuantity, got %v", err)
	}
	if err := svc.Add(sid, "necklace-rose-pearl", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("zero qty add: want ErrInvalidQuantity, got %v", err)
	}
	if err := svc.Add(sid, "necklace-rose-pearl", -2); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("negative qty add: want ErrInvalidQuantity, got %v", err)
	}

	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if !cv.IsEmpty() {
		t.Fatalf("cart should stay empty, got %+v", cv)
	}
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	db := memdb(t)
	svc := newCartSvc(db)
	sid := "sess-setqty"

	if err := svc.Add(sid, "necklace-rose-pearl", 2); err != nil {
		t.Fatal(err)
	}
	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	line := cv.Lines[0].LineID

	if err := svc.SetQuantity(sid, line, 4); err != nil {
		t.Fatal(err)
	}
	cv, _ = svc.View(sid)
	if cv.Lines[0].Qty != 4 {
		t.Fatalf("want qty=4, got %d", cv.Lines[0].Qty)
	}

	if err := svc.SetQuantity(sid, line, 0); err != nil {
		t.Fatal(err)
	}
	cv, _ = svc.View(sid)
	if !cv.IsEmpty() {
		t.Fatalf("line should be removed at qty 0, got %+v", cv.Lines)
	}

	// removing an absent line is a no-op
	if err := svc.RemoveLine(sid, line); err != nil {
		t.Fatalf("remove absent line should be a no-op, got %v", err)
	}
}

func TestCartViewTracksLivePriceAndShipping(t *testing.T) {
	db := memdb(t)
	svc := newCartSvc(db)
	sid := "sess-live"

	// 38,000 < threshold, shipping applies
	if err := svc.Add(sid, "necklace-silver-locket", 1); err != nil {
		t.Fatal(err)
	}
	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Subtotal != 38000 || cv.Shipping != 5000 || cv.Total != 43000 {
		t.Fatalf("bad totals below threshold: %+v", cv)
	}
	if r := cv.Remaining(domain.DefaultShipping); r != 12001 {
		t.Fatalf("want remaining 12001 to clear the threshold, got %d", r)
	}

	// price change in the catalog is reflected immediately in the cart
	if _, err := db.Exec(`UPDATE products SET price = 60000 WHERE id = 'necklace-silver-locket'`); err != nil {
		t.Fatal(err)
	}
	cv, _ = svc.View(sid)
	if cv.Subtotal != 60000 || cv.Shipping != 0 || cv.Total != 60000 {
		t.Fatalf("live price not picked up: %+v", cv)
	}

	// deactivated products are pruned from the cart
	if _, err := db.Exec(`UPDATE products SET active = 0 WHERE id = 'necklace-silver-locket'`); err != nil {
		t.Fatal(err)
	}
	cv, _ = svc.View(sid)
	if !cv.IsEmpty() {
		t.Fatalf("deactivated product should be pruned, got %+v", cv.Lines)
	}
}
