package repos

import "github.com/jmoiron/sqlx"

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

type AdminRow struct {
	Identity  string `db:"identity" json:"identity"`
	GrantedBy string `db:"granted_by" json:"granted_by"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

func (r *AdminRepo) IsAdmin(identity string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM admins WHERE identity=?`, identity); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Grant is idempotent: granting to an existing admin is a no-op.
func (r *AdminRepo) Grant(identity, grantedBy string) error {
	_, err := r.db.Exec(`
		INSERT INTO admins(identity, granted_by) VALUES(?, ?)
		ON CONFLICT(identity) DO NOTHING
	`, identity, grantedBy)
	return err
}

// Revoke removes the identity from the set; reports whether a row existed.
func (r *AdminRepo) Revoke(identity string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM admins WHERE identity=?`, identity)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AdminRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM admins`)
	return n, err
}

func (r *AdminRepo) List() ([]AdminRow, error) {
	var rows []AdminRow
	err := r.db.Select(&rows, `
		SELECT identity, COALESCE(granted_by,'') AS granted_by, created_at
		FROM admins ORDER BY created_at, identity
	`)
	return rows, err
}
