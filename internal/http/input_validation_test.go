package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"aurelia/internal/config"
	"aurelia/internal/http/handlers"
	"aurelia/internal/repos"
	"aurelia/internal/services"
)

// Minimal app setup for validation tests
func newValidationApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{Max: 100, Expiration: 0}))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	deps := handlers.NewDeps(db, cfg, authSvc)
	app.Get("/products", deps.CatalogHandler.Browse)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	api := app.Group("/api/v1")
	api.Get("/availability", deps.AvailabilityHandler.Check)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/login", authH.LoginForm)

	return app, db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestValidationBadInputs(t *testing.T) {
	app, _ := newValidationApp(t)

	// availability with a malformed product id
	req := httptest.NewRequest("GET", "/api/v1/availability?productId=..%2F..%2Fetc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad productId expected 400, got %d", resp.StatusCode)
	}

	// search with invalid chars
	req2 := httptest.NewRequest("GET", "/products?q=%3Cscript%3E", nil)
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatal(err)
	}
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad search expected 400, got %d", resp2.StatusCode)
	}

	// inverted price range
	req3 := httptest.NewRequest("GET", "/products?min=100000&max=10", nil)
	resp3, err := app.Test(req3)
	if err != nil {
		t.Fatal(err)
	}
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted range expected 400, got %d", resp3.StatusCode)
	}

	// negative price bound
	req4 := httptest.NewRequest("GET", "/products?min=-5", nil)
	resp4, err := app.Test(req4)
	if err != nil {
		t.Fatal(err)
	}
	if resp4.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative bound expected 400, got %d", resp4.StatusCode)
	}

	// order with an unknown payment method (set up cart and csrf/sid first)
	loginResp, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(loginResp, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}
	formCart := strings.NewReader("csrf=" + csrfTok + "&productId=necklace-rose-pearl&qty=1")
	reqCart := httptest.NewRequest("POST", "/cart", formCart)
	reqCart.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqCart.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	respCart, err := app.Test(reqCart)
	if err != nil {
		t.Fatal(err)
	}
	sid := extractCookie(respCart, "sid")
	if sid == "" {
		t.Fatal("sid not set after cart add")
	}

	formOrder := strings.NewReader("csrf=" + csrfTok +
		"&name=Jane&email=customer@example.com&address=12+Garden+Lane&payment=cheque")
	reqOrder := httptest.NewRequest("POST", "/orders", formOrder)
	reqOrder.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqOrder.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	reqOrder.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	respOrder, err := app.Test(reqOrder)
	if err != nil {
		t.Fatal(err)
	}
	if respOrder.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(respOrder.Body)
		t.Fatalf("bad payment expected 400, got %d body=%s", respOrder.StatusCode, body)
	}
}

// Out-of-stock pieces may be browsed but never added to the cart.
func TestCartRejectsOutOfStockProduct(t *testing.T) {
	app, _ := newValidationApp(t)

	loginResp, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(loginResp, "csrf_")

	// ring-pearl-statement is seeded with in_stock = 0
	form := strings.NewReader("csrf=" + csrfTok + "&productId=ring-pearl-statement&qty=1")
	req := httptest.NewRequest("POST", "/cart", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-stock add expected 400, got %d", resp.StatusCode)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	app, _ := newValidationApp(t)

	req := httptest.NewRequest("GET", "/api/v1/availability?productId=ring-pearl-statement", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Status    string `json:"status"`
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "OUT_OF_STOCK" || got.ProductID != "ring-pearl-statement" {
		t.Fatalf("bad availability payload: %+v", got)
	}

	// unknown product -> 404
	req2 := httptest.NewRequest("GET", "/api/v1/availability?productId=no-such-piece", nil)
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatal(err)
	}
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product expected 404, got %d", resp2.StatusCode)
	}
}

// Templates auto-escape untrusted text.
func TestTemplateAutoEscape(t *testing.T) {
	app, db := newValidationApp(t)
	// Insert a product with XSS-y fields
	_, _ = db.Exec(`
		INSERT INTO products(id,category_id,name,description,price,images_json,materials_json,active)
		VALUES('xss-1','rings','<script>alert(1)</script>','<b>desc</b>',9900,'[]','[]',1)
	`)

	req := httptest.NewRequest("GET", "/product/xss-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}
