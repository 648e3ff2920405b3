package domain

// Item is a catalog entry. Price is a count of the smallest currency
// denomination; removal is a soft delete so ledger history referencing the
// id stays resolvable.
type Item struct {
	ID          uint64 `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       uint64 `db:"price" json:"price"`
	Stock       uint64 `db:"stock" json:"stock"`
	Available   bool   `db:"available" json:"available"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

// PurchaseRecord is one completed purchase. Immutable once appended; seq is
// the ledger's append order.
type PurchaseRecord struct {
	Seq        uint64 `db:"seq" json:"seq"`
	Buyer      string `db:"buyer" json:"buyer"`
	ItemID     uint64 `db:"item_id" json:"item_id"`
	Quantity   uint64 `db:"quantity" json:"quantity"`
	AmountPaid uint64 `db:"amount_paid" json:"amount_paid"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    uint64 `json:"qty,omitempty"`
}
