package sqlite

import (
	"database/sql/driver"
	"fmt"
	"io"
	"math"
)

// maxBlobLen is the largest binary value the engine can represent.
// Declared as a variable so tests can exercise the range check without
// allocating gigabytes.
var maxBlobLen = math.MaxInt32

// Stmt wraps one compiled query bound to exactly one Database. A Stmt must
// be closed no later than the Database it was prepared against.
//
// Parameter indices are 1-based; column indices are 0-based, matching the
// engine's conventions.
type Stmt struct {
	db     *Database
	sql    string
	ds     driver.Stmt
	params []driver.Value

	rows      driver.Rows
	row       []driver.Value
	hasRow    bool
	exhausted bool

	lastInsertID int64
	changes      int64

	closed bool
}

// Bind binds the parameter at the 1-based index to a typed value. nil, and
// nil pointers of supported types, bind SQL NULL. Rebinding an index before
// execution overwrites the prior value; indices never bound stay NULL.
//
// []byte values are copied; use BindBlob with retain=false to alias caller
// memory instead.
//
// Returns:
//   - error: Bind-kind *Error if the index is out of range for the
//     compiled statement or the value's type is not supported
func (s *Stmt) Bind(index int, v any) error {
	if s.closed {
		return closedError(KindBind)
	}
	if index < 1 || index > len(s.params) {
		return bindError("parameter index %d out of range [1, %d]", index, len(s.params))
	}

	dv, err := bindValue(v)
	if err != nil {
		return err
	}
	s.params[index-1] = dv
	return nil
}

// BindBlob binds raw binary data at the 1-based index.
//
// With retain=true the bytes are copied, so the statement owns independent
// storage for its lifetime. With retain=false the statement references the
// caller's slice; the caller must keep it unmodified and alive until the
// statement has executed.
//
// Returns:
//   - error: Bind-kind (range) *Error if the data exceeds the engine's
//     maximum blob size, or the index is out of range. Nothing is sent to
//     the engine on failure.
func (s *Stmt) BindBlob(index int, data []byte, retain bool) error {
	if s.closed {
		return closedError(KindBind)
	}
	if index < 1 || index > len(s.params) {
		return bindError("parameter index %d out of range [1, %d]", index, len(s.params))
	}
	if len(data) > maxBlobLen {
		return bindError("blob of %d bytes exceeds the engine maximum of %d", len(data), maxBlobLen)
	}

	if retain {
		buf := make([]byte, len(data))
		copy(buf, data)
		data = buf
	}
	s.params[index-1] = data
	return nil
}

// ClearBindings resets every parameter slot to NULL, returning the
// statement to its freshly prepared binding state.
func (s *Stmt) ClearBindings() {
	for i := range s.params {
		s.params[i] = nil
	}
}

// Run executes the statement if it has not executed yet, then advances to
// the next result row. It reports whether a row is available for column
// extraction.
//
// Statements that produce no result columns (INSERT, UPDATE, DELETE, DDL)
// execute fully on the first call, record Changes and LastInsertRowID, and
// report no row. Once a row-producing statement is exhausted, Run keeps
// reporting false until Reset is called.
//
// Returns:
//   - bool: Whether the current row is valid
//   - error: Query-kind *Error on execution failure (constraint violation,
//     locked database, bind mismatch)
func (s *Stmt) Run() (bool, error) {
	if s.closed {
		return false, closedError(KindQuery)
	}

	if s.rows == nil && !s.exhausted {
		if err := s.start(); err != nil {
			return false, err
		}
	}
	if s.exhausted {
		s.hasRow = false
		return false, nil
	}

	err := s.rows.Next(s.row)
	if err == io.EOF {
		s.finishRows()
		return false, nil
	}
	if err != nil {
		s.finishRows()
		return false, engineError(KindQuery, err)
	}

	s.hasRow = true
	return true, nil
}

// Step is an alias for Run, matching the engine's stepping terminology.
func (s *Stmt) Step() (bool, error) {
	return s.Run()
}

// start performs the first execution. The driver only exposes
// last-insert-id and rows-affected through its Exec path and row stepping
// through its Query path, so dispatch is by the compiled statement's
// column count: the driver binds lazily, meaning inspecting the columns of
// a fresh cursor executes nothing, and closing it before the first step
// resets the statement untouched.
func (s *Stmt) start() error {
	rows, err := queryDriverStmt(s.ds, s.params)
	if err != nil {
		return engineError(KindQuery, err)
	}

	cols := rows.Columns()
	if len(cols) > 0 {
		s.rows = rows
		s.row = make([]driver.Value, len(cols))
		return nil
	}

	// No result columns: switch to the Exec path for DML introspection.
	if err := rows.Close(); err != nil {
		return engineError(KindQuery, err)
	}

	res, err := execDriverStmt(s.ds, s.params)
	if err != nil {
		return engineError(KindQuery, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.lastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		s.changes = n
	}

	s.exhausted = true
	return nil
}

// finishRows closes the row cursor after exhaustion or a step failure.
func (s *Stmt) finishRows() {
	if s.rows != nil {
		s.rows.Close() //nolint:errcheck // Cursor already done; reset is best effort
		s.rows = nil
	}
	s.hasRow = false
	s.exhausted = true
}

// Reset returns the statement to its ready-to-execute state, discarding
// any in-progress row cursor. Bound parameter values are kept; use
// ClearBindings to drop them.
//
// Returns:
//   - error: Query-kind *Error if releasing the cursor fails
func (s *Stmt) Reset() error {
	if s.closed {
		return closedError(KindQuery)
	}

	var err error
	if s.rows != nil {
		err = s.rows.Close()
		s.rows = nil
	}
	s.hasRow = false
	s.exhausted = false
	if err != nil {
		return engineError(KindQuery, err)
	}
	return nil
}

// ColumnCount returns the number of result columns of the executing
// statement. It is 0 before the first Run of a row-producing statement.
func (s *Stmt) ColumnCount() int {
	return len(s.row)
}

// LastInsertRowID returns the row identifier assigned by the most recent
// successful INSERT executed through this statement. The value is
// undefined before any insert has run.
func (s *Stmt) LastInsertRowID() int64 {
	return s.lastInsertID
}

// Changes returns the number of rows affected by the most recently
// executed statement.
func (s *Stmt) Changes() int64 {
	return s.changes
}

// Close releases the compiled statement. A Stmt must be closed before (or
// at the same time as) its owning Database, never after.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.rows != nil {
		s.rows.Close() //nolint:errcheck // Superseded by statement finalisation
		s.rows = nil
	}
	if err := s.ds.Close(); err != nil {
		return engineError(KindQuery, err)
	}
	return nil
}

// columnRaw returns the engine value of the given 0-based column of the
// current row. Violating the valid-row precondition is a programming
// error, not a recoverable failure.
func (s *Stmt) columnRaw(index int) driver.Value {
	if s.closed || !s.hasRow {
		panic(fmt.Sprintf("sqlite: column %d read without a current row (query %q)", index, s.sql))
	}
	if index < 0 || index >= len(s.row) {
		panic(fmt.Sprintf("sqlite: column index %d out of range [0, %d) (query %q)", index, len(s.row), s.sql))
	}
	return s.row[index]
}

// queryDriverStmt runs the positional Query path on a driver statement.
func queryDriverStmt(ds driver.Stmt, params []driver.Value) (driver.Rows, error) {
	return ds.Query(params) //nolint:staticcheck // Positional driver API; this package never cancels
}

// execDriverStmt runs the positional Exec path on a driver statement.
func execDriverStmt(ds driver.Stmt, params []driver.Value) (driver.Result, error) {
	return ds.Exec(params) //nolint:staticcheck // Positional driver API; this package never cancels
}
