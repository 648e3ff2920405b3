package repos

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single handle: serializes writers and keeps :memory: DSNs on one
	// database across the pool.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Accounts & sessions (caller identity boundary)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Admin set: identities allowed to mutate the catalog and the set itself
CREATE TABLE IF NOT EXISTS admins(
  identity TEXT PRIMARY KEY REFERENCES users(id) ON DELETE RESTRICT,
  granted_by TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Catalog: soft-deleted via 'available' so ledger rows stay resolvable
CREATE TABLE IF NOT EXISTS catalog(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price INTEGER NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  available INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_catalog_available ON catalog(available);

-- Ledger: append-only purchase history, seq is the append order
CREATE TABLE IF NOT EXISTS ledger(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  buyer TEXT NOT NULL,
  item_id INTEGER NOT NULL REFERENCES catalog(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  amount_paid INTEGER NOT NULL CHECK (amount_paid >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ledger_buyer ON ledger(buyer);
CREATE INDEX IF NOT EXISTS idx_ledger_item  ON ledger(item_id);

-- Running balance owed to the owner (single row)
CREATE TABLE IF NOT EXISTS ledger_balance(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
);
INSERT INTO ledger_balance(id, balance)
  SELECT 1, 0 WHERE NOT EXISTS (SELECT 1 FROM ledger_balance WHERE id = 1);
`
	_, err := db.Exec(schema)
	return err
}

// SeedOwner ensures the deploying owner account exists and holds admin
// privilege. Idempotent; safe to run every start. Returns the owner identity.
func SeedOwner(db *sqlx.DB, email, name, password string) (string, error) {
	var id string
	err := db.Get(&id, `SELECT id FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		id = uuid.NewString()
		hash, herr := bcrypt.GenerateFromPassword([]byte(password), 12)
		if herr != nil {
			return "", herr
		}
		if _, err := db.Exec(`
			INSERT INTO users(id,email,name,password_hash) VALUES(?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, id, email, name, string(hash)); err != nil {
			return "", err
		}
		log.Printf("[seed] owner account created for %s", email)
	}
	if _, err := db.Exec(`
		INSERT INTO admins(identity, granted_by) VALUES(?, ?)
		ON CONFLICT(identity) DO NOTHING
	`, id, id); err != nil {
		return "", err
	}
	return id, nil
}
