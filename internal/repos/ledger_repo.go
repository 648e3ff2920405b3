package repos

import (
	"math"

	"goodsmgmt/internal/domain"

	"github.com/jmoiron/sqlx"
)

type LedgerRepo struct{ db *sqlx.DB }

func NewLedgerRepo(db *sqlx.DB) *LedgerRepo { return &LedgerRepo{db: db} }

const recordCols = `seq, buyer, item_id, quantity, amount_paid, created_at`

// AppendTx appends a purchase record and bumps the running balance inside
// the caller's transaction. Fails domain.ErrOverflow if the balance would
// leave the INTEGER domain; practically unreachable, but checked.
func (r *LedgerRepo) AppendTx(tx *sqlx.Tx, buyer string, itemID, quantity, amountPaid uint64) (domain.PurchaseRecord, error) {
	var balance uint64
	if err := tx.Get(&balance, `SELECT balance FROM ledger_balance WHERE id = 1`); err != nil {
		return domain.PurchaseRecord{}, err
	}
	if amountPaid > math.MaxInt64-balance {
		return domain.PurchaseRecord{}, domain.ErrOverflow
	}

	res, err := tx.Exec(`
	  INSERT INTO ledger(buyer, item_id, quantity, amount_paid)
	  VALUES(?, ?, ?, ?)
	`, buyer, int64(itemID), int64(quantity), int64(amountPaid))
	if err != nil {
		return domain.PurchaseRecord{}, err
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return domain.PurchaseRecord{}, err
	}
	if _, err := tx.Exec(`UPDATE ledger_balance SET balance = balance + ? WHERE id = 1`, int64(amountPaid)); err != nil {
		return domain.PurchaseRecord{}, err
	}

	var rec domain.PurchaseRecord
	if err := tx.Get(&rec, `SELECT `+recordCols+` FROM ledger WHERE seq = ?`, seq); err != nil {
		return domain.PurchaseRecord{}, err
	}
	return rec, nil
}

func (r *LedgerRepo) Balance() (uint64, error) {
	var b uint64
	err := r.db.Get(&b, `SELECT balance FROM ledger_balance WHERE id = 1`)
	return b, err
}

// History returns records in append order. buyer and itemID are optional
// filters; zero values mean "any".
func (r *LedgerRepo) History(buyer string, itemID uint64, limit, offset int) ([]domain.PurchaseRecord, error) {
	where := `1=1`
	args := []any{}
	if buyer != "" {
		where += ` AND buyer = ?`
		args = append(args, buyer)
	}
	if itemID != 0 {
		where += ` AND item_id = ?`
		args = append(args, int64(itemID))
	}
	args = append(args, limit, offset)

	var out []domain.PurchaseRecord
	err := r.db.Select(&out, `
	  SELECT `+recordCols+`
	  FROM ledger
	  WHERE `+where+`
	  ORDER BY seq
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

// Withdraw subtracts amount from the balance owed; the balance >= ? guard
// rejects overdrafts. Reports whether the withdrawal happened.
func (r *LedgerRepo) Withdraw(amount uint64) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE ledger_balance SET balance = balance - ?
	  WHERE id = 1 AND balance >= ?
	`, int64(amount), int64(amount))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
