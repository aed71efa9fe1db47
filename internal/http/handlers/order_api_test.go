package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"thebaker/internal/config"
	"thebaker/internal/domain"
	"thebaker/internal/http/handlers"
	"thebaker/internal/repos"
)

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{ModelPath: filepath.Join(t.TempDir(), "missing-model.json")}
	d := handlers.NewDeps(db, cfg, time.UTC)

	app := fiber.New()
	app.Get("/api/products", d.ProductHandler.Menu)
	app.Post("/api/orders", d.OrderHandler.Create)
	app.Get("/api/orders/search", d.OrderHandler.Search)
	app.Get("/api/orders/:id/status", d.OrderHandler.Status)
	app.Get("/api/shop/status", d.StaffHandler.ShopStatus)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("bad JSON %q: %v", raw, err)
		}
	}
	return resp, out
}

func TestOrderAPI_CreateAndStatus(t *testing.T) {
	app, db := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/orders", `{
		"phone": "010-1234-5678",
		"customerName": "Mina",
		"items": [{"productId": "plain-bagel", "qty": 2}]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["status"] != string(domain.StatusPending) {
		t.Fatalf("want PENDING, got %v", body["status"])
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("missing order id")
	}

	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id = 'plain-bagel'`); err != nil {
		t.Fatal(err)
	}
	if stock != 28 {
		t.Fatalf("want stock 28, got %d", stock)
	}

	resp, body = doJSON(t, app, "GET", "/api/orders/"+id+"/status", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "PENDING" {
		t.Fatalf("status lookup: %d %v", resp.StatusCode, body)
	}

	resp, body = doJSON(t, app, "GET", "/api/orders/nope/status", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "UNKNOWN" {
		t.Fatalf("unknown order: %d %v", resp.StatusCode, body)
	}
}

func TestOrderAPI_Rejections(t *testing.T) {
	app, _ := newTestApp(t)

	// bad phone never reaches the service
	resp, _ := doJSON(t, app, "POST", "/api/orders", `{
		"phone": "not a phone",
		"items": [{"productId": "plain-bagel", "qty": 1}]
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for bad phone, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/orders", `{
		"phone": "01012345678",
		"items": [{"productId": "no-such-bread", "qty": 1}]
	}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for unknown product, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/orders", `{
		"phone": "01012345678",
		"items": [{"productId": "sourdough", "qty": 9999}]
	}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("want 409 for oversell, got %d", resp.StatusCode)
	}
}

func TestProductAPI_MenuByDate(t *testing.T) {
	app, _ := newTestApp(t)

	// 2026-01-05 is a Monday: soft doughs and drinks only
	req := httptest.NewRequest("GET", "/api/products?date=2026-01-05", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var menu []domain.Product
	if err := json.Unmarshal(raw, &menu); err != nil {
		t.Fatalf("bad JSON %q: %v", raw, err)
	}
	seen := map[string]bool{}
	for _, p := range menu {
		seen[p.ID] = true
	}
	if seen["sourdough"] || seen["baguette"] {
		t.Fatalf("hard doughs listed on Monday: %v", seen)
	}
	if !seen["plain-bagel"] || !seen["iced-latte"] {
		t.Fatalf("missing Monday products: %v", seen)
	}
}

func TestShopAPI_Status(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/api/shop/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if _, ok := body["open"]; !ok {
		t.Fatalf("missing open flag: %v", body)
	}
	if _, ok := body["reservationOpen"]; !ok {
		t.Fatalf("missing reservationOpen flag: %v", body)
	}
}
