package store

import (
	"context"
	"fmt"
)

// Attach makes another database file visible on this connection under the
// given schema alias.
func (s *Store) Attach(ctx context.Context, alias, dbPath string) error {
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("ATTACH DATABASE ? AS %s", quoteIdent(alias)), dbPath,
	); err != nil {
		return fmt.Errorf("attach %s as %s: %w", dbPath, alias, err)
	}
	return nil
}

// Detach removes a previously attached database.
func (s *Store) Detach(ctx context.Context, alias string) error {
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DETACH DATABASE %s", quoteIdent(alias))); err != nil {
		return fmt.Errorf("detach %s: %w", alias, err)
	}
	return nil
}

// HasAttachedTable reports whether the named table exists in an attached schema.
func (s *Store) HasAttachedTable(ctx context.Context, alias, table string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s.sqlite_master WHERE type = 'table' AND name = ?", quoteIdent(alias)),
		table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query %s.sqlite_master: %w", alias, err)
	}
	return n > 0, nil
}

// ReplaceTableFrom fully replaces the named table with the concatenation of
// the same table from the attached schemas, preserving alias order. This is
// a replace, never an append: any prior canonical content is dropped.
func (s *Store) ReplaceTableFrom(ctx context.Context, table string, aliases []string) error {
	if len(aliases) == 0 {
		return fmt.Errorf("replace %s: no source schemas", table)
	}
	qt := quoteIdent(table)
	stmts := []string{
		"DROP TABLE IF EXISTS merge_tmp",
		fmt.Sprintf("CREATE TABLE merge_tmp AS SELECT * FROM %s.%s", quoteIdent(aliases[0]), qt),
	}
	for _, alias := range aliases[1:] {
		stmts = append(stmts,
			fmt.Sprintf("INSERT INTO merge_tmp SELECT * FROM %s.%s", quoteIdent(alias), qt))
	}
	stmts = append(stmts,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", qt),
		fmt.Sprintf("ALTER TABLE merge_tmp RENAME TO %s", qt),
	)
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("replace table %s: %w", table, err)
		}
	}
	return nil
}
