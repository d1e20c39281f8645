package sqlite

import (
	"database/sql/driver"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// OpenFlag is a bitset of connection open options.
type OpenFlag int

const (
	// ReadOnly opens the database for reading only. Writes fail with a
	// query error.
	ReadOnly OpenFlag = 1 << iota

	// SharedCache enables cross-connection page cache sharing within the
	// process. Correctness under this mode relies on the engine's own
	// locking.
	SharedCache
)

// Database owns one open engine handle. It is the factory for Statements
// and Transactions. A Database must be used from a single goroutine;
// see the package documentation.
type Database struct {
	conn        driver.Conn
	path        string
	flags       OpenFlag
	busyTimeout time.Duration
	id          string
	log         *slog.Logger
}

// Open opens (creating if necessary, unless ReadOnly) the database file at
// path with the given flags. Flags are translated into the driver's
// connection-string options and passed through verbatim; engine-level
// rejection surfaces as a connection error.
//
// Each Database carries a unique identifier, attached to its log records.
//
// Returns:
//   - *Database: Connected handle wrapper
//   - error: Connection-kind *Error if the engine cannot open the file
func Open(path string, flags OpenFlag) (*Database, error) {
	db := &Database{
		path:  path,
		flags: flags,
		id:    uuid.NewString(),
	}
	db.log = slog.Default().With("connection", db.id, "path", path)

	if err := db.connect(); err != nil {
		return nil, err
	}

	db.log.Debug("database opened", "read_only", flags&ReadOnly != 0, "shared_cache", flags&SharedCache != 0)
	return db, nil
}

// SetLogger replaces the logger used for this connection's debug records
// and the documented swallow sites. A nil logger resets to slog.Default().
func (db *Database) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	db.log = log.With("connection", db.id, "path", db.path)
}

// connect opens the engine handle using the current DSN.
func (db *Database) connect() error {
	d := &sqlite3.SQLiteDriver{}
	conn, err := d.Open(db.dsn())
	if err != nil {
		return engineError(KindConnection, err)
	}
	db.conn = conn
	return nil
}

// dsn builds the driver connection string from the path, open flags, and
// busy timeout.
func (db *Database) dsn() string {
	var params []string
	if db.flags&ReadOnly != 0 {
		params = append(params, "mode=ro")
	}
	if db.flags&SharedCache != 0 {
		params = append(params, "cache=shared")
	}
	if db.busyTimeout > 0 {
		params = append(params, "_busy_timeout="+strconv.FormatInt(db.busyTimeout.Milliseconds(), 10))
	}
	dsn := "file:" + db.path
	if len(params) > 0 {
		dsn += "?" + strings.Join(params, "&")
	}
	return dsn
}

// SetBusyTimeout configures how long a blocked operation waits for a lock
// held by another connection before failing.
//
// Applying the timeout requires closing and reopening the engine handle;
// Statements prepared before this call become invalid and must be prepared
// again. Call this before preparing statements.
//
// Returns:
//   - error: Connection-kind *Error if closing or reopening fails
func (db *Database) SetBusyTimeout(d time.Duration) error {
	if db.conn == nil {
		return closedError(KindConnection)
	}

	db.busyTimeout = d
	if err := db.conn.Close(); err != nil {
		db.conn = nil
		return engineError(KindConnection, err)
	}
	db.conn = nil

	if err := db.connect(); err != nil {
		return err
	}

	db.log.Debug("busy timeout applied", "timeout_ms", d.Milliseconds())
	return nil
}

// Exec splits sql on statement-terminating ';' and prepares and runs each
// statement in order, stopping at the first failure. Semicolons inside
// string or blob literals are not recognised; this splitting is naive by
// contract. Use Prepare for statements whose literals contain ';'.
//
// No implicit transaction is opened: statements before a failing one
// remain applied.
//
// Returns:
//   - error: Query-kind *Error from the first statement that fails to
//     prepare or execute
func (db *Database) Exec(sql string) error {
	if db.conn == nil {
		return closedError(KindQuery)
	}

	for _, part := range strings.Split(sql, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := db.execOne(part); err != nil {
			return err
		}
	}
	return nil
}

// execOne prepares and runs a single statement, discarding any rows.
func (db *Database) execOne(sql string) error {
	ds, err := db.conn.Prepare(sql)
	if err != nil {
		return engineError(KindQuery, err)
	}
	defer ds.Close() //nolint:errcheck // Prepared form released best effort after execution

	if _, err := execDriverStmt(ds, nil); err != nil {
		return engineError(KindQuery, err)
	}
	return nil
}

// Prepare compiles sql into a Statement bound to this connection.
//
// Returns:
//   - *Stmt: Compiled statement with parameter slots sized to the query
//   - error: Query-kind *Error if the text does not compile
func (db *Database) Prepare(sql string) (*Stmt, error) {
	if db.conn == nil {
		return nil, closedError(KindQuery)
	}

	ds, err := db.conn.Prepare(sql)
	if err != nil {
		return nil, engineError(KindQuery, err)
	}

	return &Stmt{
		db:     db,
		sql:    sql,
		ds:     ds,
		params: make([]driver.Value, ds.NumInput()),
	}, nil
}

// Close closes the engine handle. Any close-time engine error is surfaced.
// Once closed the Database cannot be reused; construct a new one with
// Open.
func (db *Database) Close() error {
	if db.conn == nil {
		return nil
	}

	err := db.conn.Close()
	db.conn = nil
	if err != nil {
		return engineError(KindConnection, err)
	}

	db.log.Debug("database closed")
	return nil
}

// Path returns the filesystem path this Database was opened with.
func (db *Database) Path() string {
	return db.path
}

// ID returns the unique identifier generated for this connection.
func (db *Database) ID() string {
	return db.id
}
