// Package store loads canonical tables into a SQL database.
//
// sqlite:<path> (or file:<path>) uses modernc.org/sqlite; postgres:// and
// postgresql:// go through pgx's database/sql driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"gwasdb/internal/schema"
)

// ErrUnknownSchema is returned by Load for a schema with no table.
var ErrUnknownSchema = errors.New("store: no table for schema")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// placeholder returns the n-th (1-based) bind parameter.
func (d dialect) placeholder(n int) string {
	if d == dialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

type tableDef struct {
	name    string
	columns []string // after "source"
	types   []string
}

// tables maps schema names to their SQL table.
var tables = map[string]tableDef{
	schema.PValueName: {
		name:    "gwas_pvalues",
		columns: []string{"rsid", "p", "n"},
		types:   []string{"TEXT NOT NULL", "DOUBLE PRECISION NOT NULL", "BIGINT NOT NULL"},
	},
	schema.LocationName: {
		name:    "gwas_locations",
		columns: []string{"rsid", "chromosome", "position"},
		types:   []string{"TEXT NOT NULL", "BIGINT NOT NULL", "BIGINT NOT NULL"},
	},
}

// Store is an open database handle.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// parseDSN picks the driver for dsn.
func parseDSN(dsn string) (driver, source string, d dialect, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, dialectPostgres, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite:"), dialectSQLite, nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn, dialectSQLite, nil
	}
	return "", "", 0, fmt.Errorf("store: unsupported dsn %q (want sqlite:<path> or postgres://)", dsn)
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, source, d, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}
	if d == dialectSQLite {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{db: db, dialect: d}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, name := range []string{schema.PValueName, schema.LocationName} {
		td := tables[name]
		defs := []string{"source TEXT NOT NULL"}
		for i, c := range td.columns {
			defs = append(defs, c+" "+td.types[i])
		}
		q := `CREATE TABLE IF NOT EXISTS ` + td.name + ` (` + strings.Join(defs, ", ") + `)`
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("store: create %s: %w", td.name, err)
		}
		idx := `CREATE INDEX IF NOT EXISTS ` + td.name + `_source_idx ON ` + td.name + ` (source)`
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("store: index %s: %w", td.name, err)
		}
	}
	return nil
}

// Load replaces the rows previously loaded for source with c, in one
// transaction, and returns the number of rows inserted.
func (s *Store) Load(ctx context.Context, source string, c *schema.Canonical) (int, error) {
	td, ok := tables[c.Schema.Name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownSchema, c.Schema.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	del := `DELETE FROM ` + td.name + ` WHERE source = ` + s.dialect.placeholder(1)
	if _, err := tx.ExecContext(ctx, del, source); err != nil {
		return 0, fmt.Errorf("store: clear %s: %w", td.name, err)
	}

	ph := make([]string, len(td.columns)+1)
	for i := range ph {
		ph[i] = s.dialect.placeholder(i + 1)
	}
	ins := `INSERT INTO ` + td.name + ` (source, ` + strings.Join(td.columns, ", ") + `) VALUES (` + strings.Join(ph, ", ") + `)`
	stmt, err := tx.PrepareContext(ctx, ins)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(td.columns)+1)
	args[0] = source
	for _, row := range c.Rows {
		for i, v := range row {
			args[i+1] = v.Any()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("store: insert %s: %w", td.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(c.Rows), nil
}
