package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"goodsmgmt/internal/http/handlers"
	"goodsmgmt/internal/repos"
)

// newTestApp wires the same routes as cmd/goodsmgmt against an in-memory
// store. "owner" is the seeded admin; alice and bob are plain accounts with
// sessions sid-owner / sid-alice / sid-bob already bound.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	seed := `
	INSERT INTO users(id,email,name,password_hash) VALUES
	  ('owner','owner@test','Owner','x'),
	  ('alice','alice@test','Alice','x'),
	  ('bob','bob@test','Bob','x');
	INSERT INTO admins(identity,granted_by) VALUES ('owner','owner');
	INSERT INTO sessions(id,user_id) VALUES
	  ('sid-owner','owner'),
	  ('sid-alice','alice'),
	  ('sid-bob','bob');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}

	deps := handlers.NewDeps(db)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(handlers.AttachIdentity(deps.Auth))

	app.Post("/register", deps.AuthHandler.Register)
	app.Post("/login", deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	api := app.Group("/api/v1")
	api.Get("/catalog", deps.CatalogHandler.List)
	api.Get("/catalog/:id", deps.CatalogHandler.Get)
	api.Get("/availability", deps.CatalogHandler.Availability)
	api.Get("/purchases", deps.PurchaseHandler.History)
	api.Post("/purchases", handlers.RequireIdentity(), deps.PurchaseHandler.Place)

	adminOnly := handlers.RequireAdmin(deps.Access)
	api.Post("/catalog", adminOnly, deps.CatalogHandler.Add)
	api.Patch("/catalog/:id", adminOnly, deps.CatalogHandler.Update)
	api.Delete("/catalog/:id", adminOnly, deps.CatalogHandler.Remove)
	api.Post("/admins", adminOnly, deps.AdminHandler.SetAdmin)
	api.Get("/admins", adminOnly, deps.AdminHandler.List)
	api.Get("/ledger/balance", adminOnly, deps.LedgerHandler.Balance)
	api.Post("/ledger/withdraw", adminOnly, deps.LedgerHandler.Withdraw)

	return app, db
}

// doJSON fires a request with an optional JSON body and session cookie, and
// decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, target, sid string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}
