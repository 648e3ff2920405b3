package repos_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"goodsmgmt/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestCatalogRepo_DecrementGuard(t *testing.T) {
	db := memdb(t)
	r := repos.NewCatalogRepo(db)

	id, err := r.Insert("goods", "", 20, 3)
	if err != nil {
		t.Fatal(err)
	}

	tx := db.MustBegin()
	ok, err := r.DecrementStockTx(tx, id, 2)
	if err != nil || !ok {
		t.Fatalf("decrement within stock should apply, ok=%v err=%v", ok, err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	// Asking for more than remains must not clamp.
	tx = db.MustBegin()
	ok, err = r.DecrementStockTx(tx, id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("decrement past zero must be rejected")
	}
	_ = tx.Rollback()

	it, err := r.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if it.Stock != 1 {
		t.Fatalf("want stock 1, got %d", it.Stock)
	}
}

func TestCatalogRepo_DecrementSkipsUnavailable(t *testing.T) {
	db := memdb(t)
	r := repos.NewCatalogRepo(db)

	id, _ := r.Insert("goods", "", 20, 5)
	if err := r.MarkUnavailable(id); err != nil {
		t.Fatal(err)
	}

	tx := db.MustBegin()
	ok, err := r.DecrementStockTx(tx, id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("unavailable item must not be purchasable")
	}
	_ = tx.Rollback()
}

func TestCatalogRepo_UpdateUnknownID(t *testing.T) {
	db := memdb(t)
	r := repos.NewCatalogRepo(db)

	price := uint64(10)
	err := r.Update(42, &price, nil, nil)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
	if err := r.MarkUnavailable(42); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
}
