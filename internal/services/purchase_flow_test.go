package services_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"goodsmgmt/internal/domain"
	"goodsmgmt/internal/repos"
	"goodsmgmt/internal/services"
)

func newStack(t *testing.T) (*services.PurchaseService, *services.CatalogService, *services.LedgerService) {
	t.Helper()
	db := memdb(t)
	adminRepo := repos.NewAdminRepo(db)
	catRepo := repos.NewCatalogRepo(db)
	ledRepo := repos.NewLedgerRepo(db)

	access := services.NewAccessService(adminRepo)
	catalog := services.NewCatalogService(access, catRepo)
	ledger := services.NewLedgerService(access, ledRepo)
	purchase := services.NewPurchaseService(db, catRepo, ledRepo)
	return purchase, catalog, ledger
}

// The deploy-then-buy scenario: one unit at price 20, exact payment wins,
// the next buyer finds the shelf empty.
func TestPurchase_Scenario(t *testing.T) {
	purchase, catalog, ledger := newStack(t)

	id, err := catalog.AddItem("owner", "goods 1", "info googs 1", 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("want item id 1, got %d", id)
	}

	rec, err := purchase.Purchase("bob", id, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Buyer != "bob" || rec.ItemID != 1 || rec.Quantity != 1 || rec.AmountPaid != 20 {
		t.Fatalf("bad record: %+v", rec)
	}
	if rec.Seq != 1 {
		t.Fatalf("want first ledger seq 1, got %d", rec.Seq)
	}

	it, err := catalog.GetItem(id)
	if err != nil {
		t.Fatal(err)
	}
	if it.Stock != 0 {
		t.Fatalf("want stock 0 after purchase, got %d", it.Stock)
	}

	if _, err := purchase.Purchase("carol", id, 1, 20); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	b, err := ledger.Balance("owner")
	if err != nil {
		t.Fatal(err)
	}
	if b != 20 {
		t.Fatalf("want balance 20, got %d", b)
	}
}

func TestPurchase_ExactPaymentPolicy(t *testing.T) {
	purchase, catalog, _ := newStack(t)
	id, _ := catalog.AddItem("owner", "goods", "", 20, 5)

	if _, err := purchase.Purchase("bob", id, 2, 39); !errors.Is(err, domain.ErrInsufficientPayment) {
		t.Fatalf("underpay: want ErrInsufficientPayment, got %v", err)
	}
	if _, err := purchase.Purchase("bob", id, 2, 41); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("overpay: want ErrInvalidArgument (no change-making), got %v", err)
	}

	// Failed attempts must leave no trace.
	it, _ := catalog.GetItem(id)
	if it.Stock != 5 {
		t.Fatalf("stock must be untouched, got %d", it.Stock)
	}

	if _, err := purchase.Purchase("bob", id, 2, 40); err != nil {
		t.Fatalf("exact payment should succeed, got %v", err)
	}
	it, _ = catalog.GetItem(id)
	if it.Stock != 3 {
		t.Fatalf("want stock 3, got %d", it.Stock)
	}
}

func TestPurchase_Preconditions(t *testing.T) {
	purchase, catalog, _ := newStack(t)
	id, _ := catalog.AddItem("owner", "goods", "", 20, 1)

	if _, err := purchase.Purchase("bob", 999, 1, 20); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown item: want ErrNotFound, got %v", err)
	}
	if _, err := purchase.Purchase("bob", id, 0, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("zero quantity: want ErrInvalidArgument, got %v", err)
	}
	if _, err := purchase.Purchase("", id, 1, 20); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("missing buyer: want ErrInvalidArgument, got %v", err)
	}

	// Removed items read as gone to buyers.
	if err := catalog.RemoveItem("owner", id); err != nil {
		t.Fatal(err)
	}
	if _, err := purchase.Purchase("bob", id, 1, 20); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("removed item: want ErrNotFound, got %v", err)
	}
}

func TestPurchase_OverflowGuard(t *testing.T) {
	purchase, catalog, _ := newStack(t)
	id, err := catalog.AddItem("owner", "pricey", "", math.MaxInt64, 10)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := purchase.Purchase("bob", id, 2, math.MaxUint64); !errors.Is(err, domain.ErrOverflow) {
		t.Fatalf("want ErrOverflow, got %v", err)
	}
	it, _ := catalog.GetItem(id)
	if it.Stock != 10 {
		t.Fatalf("stock must be untouched after overflow, got %d", it.Stock)
	}
}

func TestLedger_BalanceMatchesHistory(t *testing.T) {
	purchase, catalog, ledger := newStack(t)
	id1, _ := catalog.AddItem("owner", "goods 1", "", 20, 10)
	id2, _ := catalog.AddItem("owner", "goods 2", "", 7, 10)

	if _, err := purchase.Purchase("bob", id1, 2, 40); err != nil {
		t.Fatal(err)
	}
	if _, err := purchase.Purchase("carol", id2, 3, 21); err != nil {
		t.Fatal(err)
	}
	if _, err := purchase.Purchase("bob", id2, 1, 7); err != nil {
		t.Fatal(err)
	}

	recs, err := ledger.History("", 0, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}
	var sum uint64
	for i, r := range recs {
		sum += r.AmountPaid
		if r.Seq != uint64(i+1) {
			t.Fatalf("history out of append order: %+v", recs)
		}
	}
	b, err := ledger.Balance("owner")
	if err != nil {
		t.Fatal(err)
	}
	if b != sum {
		t.Fatalf("balance %d != history sum %d", b, sum)
	}

	// Filters
	recs, _ = ledger.History("bob", 0, 1, 50)
	if len(recs) != 2 {
		t.Fatalf("want 2 records for bob, got %d", len(recs))
	}
	recs, _ = ledger.History("bob", id2, 1, 50)
	if len(recs) != 1 || recs[0].AmountPaid != 7 {
		t.Fatalf("bad filtered history: %+v", recs)
	}
}

func TestLedger_Withdraw(t *testing.T) {
	purchase, catalog, ledger := newStack(t)
	id, _ := catalog.AddItem("owner", "goods", "", 50, 5)
	if _, err := purchase.Purchase("bob", id, 2, 100); err != nil {
		t.Fatal(err)
	}

	if err := ledger.Withdraw("bob", 10); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("non-admin withdraw: want ErrUnauthorized, got %v", err)
	}
	if err := ledger.Withdraw("owner", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("zero withdraw: want ErrInvalidArgument, got %v", err)
	}
	if err := ledger.Withdraw("owner", 101); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("overdraft: want ErrInvalidArgument, got %v", err)
	}
	if err := ledger.Withdraw("owner", 60); err != nil {
		t.Fatal(err)
	}
	b, _ := ledger.Balance("owner")
	if b != 40 {
		t.Fatalf("want balance 40 after withdrawal, got %d", b)
	}
}

// Two concurrent buyers, one unit on the shelf: exactly one wins.
func TestPurchase_ContentionSingleUnit(t *testing.T) {
	purchase, catalog, ledger := newStack(t)
	id, _ := catalog.AddItem("owner", "last one", "", 20, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = purchase.Purchase("bob", id, 1, 20)
		}(i)
	}
	wg.Wait()

	var okCount, stockCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || stockCount != 1 {
		t.Fatalf("want exactly one success and one stock failure, got ok=%d stock=%d", okCount, stockCount)
	}

	it, _ := catalog.GetItem(id)
	if it.Stock != 0 {
		t.Fatalf("want stock 0, got %d", it.Stock)
	}
	b, _ := ledger.Balance("owner")
	if b != 20 {
		t.Fatalf("double-credit detected: balance %d", b)
	}
}
