// Package sqlite provides a typed, single-connection access layer over
// SQLite via the mattn/go-sqlite3 driver.
//
// This package manages:
//   - Connection lifecycle with ReadOnly / SharedCache open flags and a
//     configurable busy timeout
//   - Prepared statements with 1-based positional parameter binding and
//     0-based typed column extraction
//   - Transactions (Deferred, Immediate, Exclusive) with automatic
//     rollback when a transaction scope ends without a commit
//
// Unlike database/sql, there is no connection pool: a Database owns exactly
// one engine handle, and every Statement prepared from it runs on that
// handle. This makes engine-level state such as last_insert_rowid() and
// changes() well defined per connection.
//
// Type Model:
//
// SQLite stores values dynamically typed. This package converts at the
// boundary between the engine's value domain and a closed set of
// application types (signed/unsigned integers, float64, bool, string,
// []byte, time.Time, and pointer-based nullable variants). Extraction
// follows the engine's weak-typing coercion rules: reading a non-numeric
// text column as an integer yields 0, reading a numeric column as a string
// formats the number. Timestamps are stored as whole epoch seconds.
//
// Thread Safety:
//   - A Database and the Statements prepared from it must be used from a
//     single goroutine, or access must be serialised by the caller. Use one
//     Database per goroutine for concurrent work.
//
// Usage:
//
//	db, err := sqlite.Open("data/app.db", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	stmt, err := db.Prepare("INSERT INTO events (name, at) VALUES (?, ?)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stmt.Close()
//
//	stmt.Bind(1, "boot")
//	stmt.Bind(2, time.Now())
//	if _, err := stmt.Run(); err != nil {
//	    log.Fatal(err)
//	}
package sqlite
