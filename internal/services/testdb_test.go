package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"goodsmgmt/internal/repos"
)

// memdb opens an in-memory store with the real schema and a few accounts.
// "owner" starts as the only admin.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	seed := `
	INSERT INTO users(id,email,name,password_hash) VALUES
	  ('owner','owner@test','Owner','x'),
	  ('alice','alice@test','Alice','x'),
	  ('bob','bob@test','Bob','x'),
	  ('carol','carol@test','Carol','x');
	INSERT INTO admins(identity,granted_by) VALUES ('owner','owner');
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return db
}
