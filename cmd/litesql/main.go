// litesql - typed SQLite command runner
//
// litesql is a thin operator CLI over the litekit sqlite package. It can
// run ad-hoc statement batches and step through query results, using the
// same connection flags the library exposes (read-only, shared cache, busy
// timeout) and an optional transaction wrapper around batches.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/litekit/internal/infrastructure/config"
	"github.com/nerrad567/litekit/internal/infrastructure/logging"
	"github.com/nerrad567/litekit/sqlite"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

type rootFlags struct {
	cfgFile     string
	dbPath      string
	readOnly    bool
	sharedCache bool
	busyTimeout int
	txMode      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "litesql",
		Short:   "Run SQL against an SQLite database",
		Version: version,
		Long: `litesql opens a single SQLite connection and runs SQL against it.
Statement batches passed to exec are split on ';' (semicolons inside
string literals are not recognised); query prepares one statement and
prints its rows.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (YAML; flags override its values)")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database file path")
	rootCmd.PersistentFlags().BoolVar(&flags.readOnly, "readonly", false, "open the database read-only")
	rootCmd.PersistentFlags().BoolVar(&flags.sharedCache, "shared-cache", false, "enable shared-cache mode")
	rootCmd.PersistentFlags().IntVar(&flags.busyTimeout, "busy-timeout", 0, "busy timeout in seconds")

	rootCmd.AddCommand(newExecCmd(flags))
	rootCmd.AddCommand(newQueryCmd(flags))

	return rootCmd
}

func newExecCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a statement batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(flags, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.txMode, "tx", "", "wrap the batch in a transaction: deferred, immediate, or exclusive")
	return cmd
}

func newQueryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run one query and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, args[0])
		},
	}
}

// openDatabase resolves configuration (file, then flag overrides) and opens
// the connection.
func openDatabase(flags *rootFlags) (*sqlite.Database, *logging.Logger, error) {
	log := logging.Default()
	dbCfg := config.DatabaseConfig{Path: flags.dbPath}

	if flags.cfgFile != "" {
		cfg, err := config.Load(flags.cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		log = logging.New(cfg.Logging, version)
		dbCfg = cfg.Database
		if flags.dbPath != "" {
			dbCfg.Path = flags.dbPath
		}
	}
	if flags.readOnly {
		dbCfg.ReadOnly = true
	}
	if flags.sharedCache {
		dbCfg.SharedCache = true
	}
	if flags.busyTimeout > 0 {
		dbCfg.BusyTimeout = flags.busyTimeout
	}

	if dbCfg.Path == "" {
		return nil, nil, fmt.Errorf("no database path: pass --db or a config file")
	}

	var openFlags sqlite.OpenFlag
	if dbCfg.ReadOnly {
		openFlags |= sqlite.ReadOnly
	}
	if dbCfg.SharedCache {
		openFlags |= sqlite.SharedCache
	}

	db, err := sqlite.Open(dbCfg.Path, openFlags)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetLogger(log.Logger)

	if dbCfg.BusyTimeout > 0 {
		if err := db.SetBusyTimeout(dbCfg.GetBusyTimeout()); err != nil {
			db.Close() //nolint:errcheck // Best effort cleanup on error path
			return nil, nil, fmt.Errorf("applying busy timeout: %w", err)
		}
	}

	return db, log, nil
}

func runExec(flags *rootFlags, sql string) error {
	db, log, err := openDatabase(flags)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	mode, wrap, err := parseTxMode(flags.txMode)
	if err != nil {
		return err
	}

	if !wrap {
		return db.Exec(sql)
	}

	tx, err := db.Begin(mode)
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := db.Exec(sql); err != nil {
		return err
	}
	return tx.Commit()
}

func runQuery(cmd *cobra.Command, flags *rootFlags, sql string) error {
	db, log, err := openDatabase(flags)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	stmt, err := db.Prepare(sql)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck // Connection closes right after

	out := cmd.OutOrStdout()
	for {
		ok, err := stmt.Run()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fmt.Fprintln(out, formatRow(stmt))
	}
	return nil
}

// formatRow renders the current row tab-separated, with NULL spelled out.
func formatRow(stmt *sqlite.Stmt) string {
	cols := make([]string, stmt.ColumnCount())
	for i := range cols {
		if v := sqlite.NullColumn[string](stmt, i); v != nil {
			cols[i] = *v
		} else {
			cols[i] = "NULL"
		}
	}
	return strings.Join(cols, "\t")
}

func parseTxMode(s string) (sqlite.TxMode, bool, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, false, nil
	case "deferred":
		return sqlite.Deferred, true, nil
	case "immediate":
		return sqlite.Immediate, true, nil
	case "exclusive":
		return sqlite.Exclusive, true, nil
	default:
		return 0, false, fmt.Errorf("unknown transaction mode %q (want deferred, immediate, or exclusive)", s)
	}
}
