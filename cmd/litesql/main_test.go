package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/litekit/sqlite"
)

// runCLI executes the CLI with the given arguments, capturing stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExecAndQuery(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	_, err := runCLI(t, "exec", "--db", dbPath,
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT); INSERT INTO items (name) VALUES ('one'); INSERT INTO items (name) VALUES ('two')")
	if err != nil {
		t.Fatalf("exec error = %v", err)
	}

	out, err := runCLI(t, "query", "--db", dbPath, "SELECT id, name FROM items ORDER BY id")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("query printed %d lines, want 2: %q", len(lines), out)
	}
	if lines[0] != "1\tone" || lines[1] != "2\ttwo" {
		t.Errorf("query output = %q", out)
	}
}

func TestExecTransactionWrap(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	if _, err := runCLI(t, "exec", "--db", dbPath, "CREATE TABLE t (a)"); err != nil {
		t.Fatalf("exec error = %v", err)
	}

	// A failing batch inside --tx rolls back the statements before the failure.
	_, err := runCLI(t, "exec", "--db", dbPath, "--tx", "immediate",
		"INSERT INTO t (a) VALUES (1); INSERT INTO missing VALUES (1)")
	if err == nil {
		t.Fatal("exec with failing batch should error")
	}

	out, err := runCLI(t, "query", "--db", dbPath, "SELECT COUNT(*) FROM t")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Errorf("row count after rolled-back batch = %q, want 0", out)
	}
}

func TestExecRequiresDatabase(t *testing.T) {
	if _, err := runCLI(t, "exec", "SELECT 1"); err == nil {
		t.Error("exec without --db or config should fail")
	}
}

func TestParseTxMode(t *testing.T) {
	tests := []struct {
		input   string
		mode    sqlite.TxMode
		wrap    bool
		wantErr bool
	}{
		{input: "", wrap: false},
		{input: "deferred", mode: sqlite.Deferred, wrap: true},
		{input: "immediate", mode: sqlite.Immediate, wrap: true},
		{input: "EXCLUSIVE", mode: sqlite.Exclusive, wrap: true},
		{input: "serializable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("mode "+tt.input, func(t *testing.T) {
			mode, wrap, err := parseTxMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTxMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if wrap != tt.wrap || mode != tt.mode {
				t.Errorf("parseTxMode(%q) = (%v, %v)", tt.input, mode, wrap)
			}
		})
	}
}
