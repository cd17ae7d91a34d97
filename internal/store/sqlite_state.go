package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// schemaVersion is bumped whenever migrate gains a data fix-up step.
const schemaVersion = 1

// The persisted names follow the legacy layout: headings live in
// major_categories and subheadings in subcategories, so databases created by
// earlier versions of the tool open unchanged.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS major_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
			UNIQUE(project_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS subcategories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			major_category_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (major_category_id) REFERENCES major_categories(id) ON DELETE CASCADE,
			UNIQUE(major_category_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS sentences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subcategory_id INTEGER NOT NULL,
			content TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (subcategory_id) REFERENCES subcategories(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_major_categories_project ON major_categories(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_subcategories_major_category ON subcategories(major_category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sentences_subcategory ON sentences(subcategory_id);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return err
		}
	}

	hasOrder, err := columnExists(ctx, s.db, "sentences", "sort_order")
	if err != nil {
		return err
	}
	if !hasOrder {
		if _, err := s.db.ExecContext(ctx, `ALTER TABLE sentences ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}

	v, err := readMeta(ctx, s.db, "schema_version")
	if err != nil {
		return err
	}
	if n, _ := strconv.Atoi(v); n >= schemaVersion {
		return nil
	}

	// Older databases used 1-based orders, and sentences had none at all.
	// Rewrite every sibling group to 0..n-1 once.
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, t := range orderedTables {
		if err := t.densifyAll(ctx, tx); err != nil {
			return err
		}
	}
	if err := writeMeta(ctx, tx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func columnExists(ctx context.Context, q querier, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, `PRAGMA table_info(`+table+`)`)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return false, err
		}
		for i, c := range cols {
			if c != "name" {
				continue
			}
			var name string
			switch x := vals[i].(type) {
			case string:
				name = x
			case []byte:
				name = string(x)
			}
			if strings.EqualFold(name, column) {
				return true, nil
			}
		}
	}
	return false, rows.Err()
}

func readMeta(ctx context.Context, q querier, k string) (string, error) {
	var v string
	err := q.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func writeMeta(ctx context.Context, q querier, k, v string) error {
	_, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v)
	return err
}
