package repos

import (
	"database/sql"

	"goodsmgmt/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const itemCols = `
  id, name, description, price, stock, available,
  created_at, COALESCE(updated_at,'') AS updated_at`

// Insert assigns the next monotone id and returns it.
func (r *CatalogRepo) Insert(name, description string, price, stock uint64) (uint64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO catalog(name, description, price, stock, available)
	  VALUES(?, ?, ?, ?, 1)
	`, name, description, int64(price), int64(stock))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Get resolves an item whether or not it is still available, so ledger
// history referencing a removed id keeps working.
func (r *CatalogRepo) Get(id uint64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `SELECT `+itemCols+` FROM catalog WHERE id = ?`, int64(id))
	return it, err
}

// ListAvailable returns available items in insertion (id) order, optionally
// filtered by a name/description substring.
func (r *CatalogRepo) ListAvailable(q string, limit, offset int) ([]domain.Item, error) {
	where := `available = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	args = append(args, limit, offset)

	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM catalog
	  WHERE `+where+`
	  ORDER BY id
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

// Update applies only the provided fields. Returns sql.ErrNoRows for an
// unknown id.
func (r *CatalogRepo) Update(id uint64, price, stock *uint64, description *string) error {
	set := `updated_at = CURRENT_TIMESTAMP`
	args := []any{}
	if price != nil {
		set += `, price = ?`
		args = append(args, int64(*price))
	}
	if stock != nil {
		set += `, stock = ?`
		args = append(args, int64(*stock))
	}
	if description != nil {
		set += `, description = ?`
		args = append(args, *description)
	}
	args = append(args, int64(id))

	res, err := r.db.Exec(`UPDATE catalog SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkUnavailable soft-deletes the item. Returns sql.ErrNoRows for an
// unknown id; removing an already-removed item is a no-op success.
func (r *CatalogRepo) MarkUnavailable(id uint64) error {
	res, err := r.db.Exec(`
	  UPDATE catalog SET available = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, int64(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetTx reads an item inside a purchase transaction.
func (r *CatalogRepo) GetTx(tx *sqlx.Tx, id uint64) (domain.Item, error) {
	var it domain.Item
	err := tx.Get(&it, `SELECT `+itemCols+` FROM catalog WHERE id = ?`, int64(id))
	return it, err
}

// DecrementStockTx subtracts qty units if the item is available and enough
// stock exists; the guard in the WHERE clause is what makes concurrent
// purchases safe. Reports whether the decrement happened.
func (r *CatalogRepo) DecrementStockTx(tx *sqlx.Tx, id, qty uint64) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE catalog
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND available = 1 AND stock >= ?
	`, int64(qty), int64(id), int64(qty))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
