package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (categories/products)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Add two more products (idempotent; safe to run every start)
	if err := seedDefaultData(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products (price in minor units, TShs)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT,
  price INTEGER NOT NULL CHECK (price >= 0),
  images_json TEXT,
  materials_json TEXT,
  dimensions TEXT,
  in_stock INTEGER NOT NULL DEFAULT 1,
  featured INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_featured   ON products(featured);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Carts (one per session; lines keyed by their own id, one line per product)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add INTEGER NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  UNIQUE (cart_id, product_id)
);

-- Orders (amounts in minor units; line values frozen at checkout)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  customer_name TEXT,
  customer_email TEXT,
  shipping_address TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  subtotal INTEGER NOT NULL,
  shipping INTEGER NOT NULL,
  total INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING'
    CHECK (status IN ('PENDING','PROCESSING','SHIPPED','DELIVERED','CANCELLED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  price INTEGER NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Wishlists (saved items per session)
CREATE TABLE IF NOT EXISTS wishlists(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  created_at  TEXT,
  PRIMARY KEY (wishlist_id, product_id)
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('necklaces','Necklaces'),
	  ('earrings','Earrings'),
	  ('rings','Rings'),
	  ('bracelets','Bracelets')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,images_json,materials_json,dimensions,in_stock,featured) VALUES
	  ('necklace-rose-pearl','necklaces','Rose Gold Pearl Necklace','Elegant handcrafted rose gold necklace with freshwater pearls. Perfect for special occasions.',120000,'["products/necklace-rose-pearl/1.jpg","products/necklace-rose-pearl/2.jpg"]','["Rose Gold","Freshwater Pearls"]','18 inches',1,1),
	  ('earrings-diamond-stud','earrings','Diamond Stud Earrings','Classic diamond stud earrings in 14k white gold setting.',85000,'["products/earrings-diamond-stud/1.jpg","products/earrings-diamond-stud/2.jpg"]','["White Gold","Diamonds"]','6mm',1,1),
	  ('ring-vintage-gold','rings','Vintage Gold Ring','Beautiful vintage-inspired gold ring with intricate detailing.',95000,'["products/ring-vintage-gold/1.jpg","products/ring-vintage-gold/2.jpg"]','["Yellow Gold"]','Size 7',1,0),
	  ('bracelet-silver-chain','bracelets','Silver Chain Bracelet','Delicate silver chain bracelet perfect for everyday wear.',45000,'["products/bracelet-silver-chain/1.jpg","products/bracelet-silver-chain/2.jpg"]','["Sterling Silver"]','7.5 inches',1,0),
	  ('earrings-emerald-drop','earrings','Emerald Drop Earrings','Stunning emerald drop earrings in gold setting.',150000,'["products/earrings-emerald-drop/1.jpg","products/earrings-emerald-drop/2.jpg"]','["Gold","Emeralds"]','2 inches',1,1),
	  ('ring-pearl-statement','rings','Pearl Statement Ring','Bold statement ring featuring a large freshwater pearl.',75000,'["products/ring-pearl-statement/1.jpg","products/ring-pearl-statement/2.jpg"]','["Gold","Freshwater Pearl"]','Size 6',0,0)`)

	return tx.Commit()
}

// seedDefaultData inserts two extra products if they don't already exist.
// Safe to run on every startup (idempotent).
func seedDefaultData(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	_, _ = tx.Exec(`
		INSERT INTO categories(id, name, created_at)
		SELECT 'bracelets', 'Bracelets', CURRENT_TIMESTAMP
		WHERE NOT EXISTS (SELECT 1 FROM categories WHERE id='bracelets')
	`)
	_, _ = tx.Exec(`
		INSERT INTO categories(id, name, created_at)
		SELECT 'necklaces', 'Necklaces', CURRENT_TIMESTAMP
		WHERE NOT EXISTS (SELECT 1 FROM categories WHERE id='necklaces')
	`)

	_, _ = tx.Exec(`
		INSERT INTO products(
			id, category_id, name, description, price, images_json, materials_json, dimensions, in_stock, featured, active, created_at, updated_at
		)
		SELECT
			'bracelet-gold-bangle', 'bracelets',
			'Hammered Gold Bangle',
			'Hand-hammered solid bangle with a brushed finish.',
			110000, '["products/bracelet-gold-bangle/1.jpg"]', '["Yellow Gold"]', '6.5 cm diameter', 1, 0, 1, CURRENT_TIMESTAMP, NULL
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE id='bracelet-gold-bangle')
	`)

	_, _ = tx.Exec(`
		INSERT INTO products(
			id, category_id, name, description, price, images_json, materials_json, dimensions, in_stock, featured, active, created_at, updated_at
		)
		SELECT
			'necklace-silver-locket', 'necklaces',
			'Sterling Silver Locket',
			'Oval photo locket on a fine curb chain.',
			38000, '["products/necklace-silver-locket/1.jpg"]', '["Sterling Silver"]', '20 inches', 1, 0, 1, CURRENT_TIMESTAMP, NULL
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE id='necklace-silver-locket')
	`)

	return tx.Commit()
}

// seedUsers ensures demo customers and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Phone, Role, Hash string
	}
	mk := func(id, email, name, phone, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Phone: phone, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-jane", "customer@example.com", "Jane Doe", "+255 123 456 789", "USER", "Passw0rd!"),
		mk("u-amani", "amani@example.com", "Amani Joseph", "+255 987 654 321", "USER", "Passw0rd!"),
		mk("u-admin", "admin@jewelry.com", "Admin User", "", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,phone,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Phone, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
