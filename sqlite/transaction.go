package sqlite

// TxMode selects the lock-acquisition strategy for a transaction.
type TxMode int

const (
	// Deferred defers lock acquisition until the first database access.
	Deferred TxMode = iota

	// Immediate acquires a write lock as soon as the transaction begins.
	Immediate

	// Exclusive acquires an exclusive lock as soon as the transaction
	// begins.
	Exclusive
)

// beginStatement maps the mode to the engine's BEGIN syntax.
func (m TxMode) beginStatement() string {
	switch m {
	case Immediate:
		return "BEGIN IMMEDIATE TRANSACTION"
	case Exclusive:
		return "BEGIN EXCLUSIVE TRANSACTION"
	default:
		return "BEGIN DEFERRED TRANSACTION"
	}
}

// Tx is a transient scope object wrapping a BEGIN issued on one Database.
// Exactly one of Commit, Rollback, or the implicit rollback performed by
// Close resolves each Tx.
//
// The intended shape mirrors the usual defer idiom:
//
//	tx, err := db.Begin(sqlite.Immediate)
//	if err != nil {
//	    return err
//	}
//	defer tx.Close() // Rolls back unless Commit succeeded
//
//	// ... execute statements ...
//
//	return tx.Commit()
type Tx struct {
	db       *Database
	resolved bool
}

// Begin starts a transaction in the given mode, issuing the corresponding
// BEGIN statement on this connection.
//
// Returns:
//   - *Tx: Active transaction scope
//   - error: Query-kind *Error if BEGIN fails
func (db *Database) Begin(mode TxMode) (*Tx, error) {
	if err := db.Exec(mode.beginStatement()); err != nil {
		return nil, err
	}
	return &Tx{db: db}, nil
}

// Commit makes the transaction's effects permanent.
//
// A failed COMMIT leaves the transaction unresolved from the engine's
// point of view but already marked resolved here, so Close will not
// attempt an implicit rollback over it; the caller decides whether to
// retry or roll back explicitly.
//
// Returns:
//   - error: Query-kind *Error if COMMIT fails
func (tx *Tx) Commit() error {
	tx.resolved = true
	return tx.db.Exec("COMMIT TRANSACTION")
}

// Rollback discards the transaction's effects.
//
// Returns:
//   - error: Query-kind *Error if ROLLBACK fails
func (tx *Tx) Rollback() error {
	tx.resolved = true
	return tx.db.Exec("ROLLBACK TRANSACTION")
}

// Close ends the transaction scope. If neither Commit nor Rollback has
// been called, it attempts a rollback; an error from that implicit
// rollback is never propagated (it would mask whatever caused the scope to
// be abandoned) and is logged at debug level instead.
func (tx *Tx) Close() {
	if tx.resolved {
		return
	}
	tx.resolved = true

	if err := tx.db.Exec("ROLLBACK TRANSACTION"); err != nil {
		tx.db.log.Debug("implicit rollback failed", "error", err)
	}
}
