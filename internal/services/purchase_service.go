package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync"

	"goodsmgmt/internal/domain"
	"goodsmgmt/internal/repos"

	"github.com/jmoiron/sqlx"
)

// PurchaseService is the transactional core: it validates a payment against
// current price and stock, then decrements stock and appends to the ledger
// as one atomic step. No partial effects survive a failed precondition.
type PurchaseService struct {
	db     *sqlx.DB
	Items  *repos.CatalogRepo
	Ledger *repos.LedgerRepo

	mu sync.Mutex // serializes the check-then-act critical section in-process
}

func NewPurchaseService(db *sqlx.DB, items *repos.CatalogRepo, ledger *repos.LedgerRepo) *PurchaseService {
	return &PurchaseService{db: db, Items: items, Ledger: ledger}
}

// Purchase executes the buy. Payment policy is exact-match: offering less
// than price*quantity fails ErrInsufficientPayment, offering more fails
// ErrInvalidArgument (no change-making).
func (s *PurchaseService) Purchase(buyer string, itemID, quantity, amountOffered uint64) (domain.PurchaseRecord, error) {
	if buyer == "" {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: missing buyer identity", domain.ErrInvalidArgument)
	}
	if quantity < 1 {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: quantity must be >= 1", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Beginx()
	if err != nil {
		return domain.PurchaseRecord{}, err
	}
	defer func() { _ = tx.Rollback() }()

	it, err := s.Items.GetTx(tx, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
	}
	if err != nil {
		return domain.PurchaseRecord{}, err
	}
	if !it.Available {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
	}

	hi, required := bits.Mul64(it.Price, quantity)
	if hi != 0 || required > math.MaxInt64 {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: price*quantity", domain.ErrOverflow)
	}
	if amountOffered < required {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: need %d, offered %d", domain.ErrInsufficientPayment, required, amountOffered)
	}
	if amountOffered != required {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: exact payment of %d required", domain.ErrInvalidArgument, required)
	}
	if it.Stock < quantity {
		return domain.PurchaseRecord{}, fmt.Errorf("%w: item %d has %d, want %d", domain.ErrInsufficientStock, itemID, it.Stock, quantity)
	}

	ok, err := s.Items.DecrementStockTx(tx, itemID, quantity)
	if err != nil {
		return domain.PurchaseRecord{}, err
	}
	if !ok {
		// Lost a race with another writer between read and update.
		return domain.PurchaseRecord{}, fmt.Errorf("%w: item %d", domain.ErrInsufficientStock, itemID)
	}

	rec, err := s.Ledger.AppendTx(tx, buyer, itemID, quantity, required)
	if err != nil {
		return domain.PurchaseRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.PurchaseRecord{}, err
	}
	return rec, nil
}
