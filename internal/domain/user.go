package domain

// User is a registered account. Its ID doubles as the caller identity the
// core services authorize against; admin privilege lives in the admin set,
// not on the user row.
type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
}
