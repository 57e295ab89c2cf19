package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// baselineDDL creates the entries table for fresh databases. Older live
// databases predate several of these columns; Migrate adds whatever is
// missing afterwards.
const baselineDDL = `
CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  client TEXT NOT NULL,
  client_key TEXT NOT NULL,
  start_iso TEXT NOT NULL,
  end_iso TEXT,
  minutes INTEGER NOT NULL DEFAULT 0,
  rounded_minutes INTEGER NOT NULL DEFAULT 0,
  rounded_hours TEXT NOT NULL DEFAULT '0.00',
  elapsed_minutes INTEGER NOT NULL DEFAULT 0,
  note TEXT,
  completed INTEGER NOT NULL DEFAULT 0,
  invoice_number TEXT,
  created_at TEXT
);
`

// addedColumns lists the columns added to the entries table over time,
// with the ALTER statement that introduces each. Order matters only for
// readability; every statement is independent.
var addedColumns = []struct {
	name string
	ddl  string
}{
	{"minutes", `ALTER TABLE entries ADD COLUMN minutes INTEGER NOT NULL DEFAULT 0`},
	{"rounded_minutes", `ALTER TABLE entries ADD COLUMN rounded_minutes INTEGER NOT NULL DEFAULT 0`},
	{"rounded_hours", `ALTER TABLE entries ADD COLUMN rounded_hours TEXT NOT NULL DEFAULT '0.00'`},
	{"elapsed_minutes", `ALTER TABLE entries ADD COLUMN elapsed_minutes INTEGER NOT NULL DEFAULT 0`},
	{"invoice_number", `ALTER TABLE entries ADD COLUMN invoice_number TEXT`},
	{"created_at", `ALTER TABLE entries ADD COLUMN created_at TEXT`},
}

// Migrate brings the entries schema up to date. It is idempotent: running
// it against a current schema is a no-op, and running it against an older
// schema adds exactly the missing columns with their defaults. Columns are
// never dropped or renamed.
//
// Legacy databases carry an "invoice" column that predates invoice_number;
// when invoice_number is first added, values are backfilled from it. A
// backfill failure is logged and swallowed - stale data in a legacy column
// must not block startup.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(baselineDDL); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}

	cols, err := s.tableColumns("entries")
	if err != nil {
		return fmt.Errorf("inspect entries schema: %w", err)
	}

	for _, col := range addedColumns {
		if cols[col.name] {
			continue
		}
		if _, err := s.db.Exec(col.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
		if col.name == "invoice_number" && cols["invoice"] {
			if _, err := s.db.Exec(`UPDATE entries SET invoice_number = invoice WHERE invoice_number IS NULL`); err != nil {
				log.Printf("storage: backfill invoice_number from legacy invoice column: %v", err)
			}
		}
	}

	return nil
}

// tableColumns returns the set of column names on a table
func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}

	return cols, rows.Err()
}
