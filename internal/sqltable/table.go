package sqltable

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/hearth/internal/entity"
)

// Table is one collection's rows.
type Table struct {
	db   *sql.DB
	name string
	info entity.KindInfo
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// SelectAll returns every row in whatever order SQLite yields them.
func (t *Table) SelectAll(ctx context.Context) ([]entity.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", columnList(t.info), quoteIdent(t.name))
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []entity.Row{}
	for rows.Next() {
		raw := make([]any, len(t.info.Columns))
		ptrs := make([]any, len(raw))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("select %s: scan: %w", t.name, err)
		}
		row := make(entity.Row, len(raw))
		for i, c := range t.info.Columns {
			v, err := decodeValue(c, raw[i])
			if err != nil {
				return nil, fmt.Errorf("select %s: %w", t.name, err)
			}
			row[c.Name] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return out, nil
}

// Insert adds one row. A duplicate id violates the primary key and returns
// an error; the existing row is untouched.
func (t *Table) Insert(ctx context.Context, row entity.Row) error {
	cols, args := t.rowArgs(row)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(t.name), strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

// Update sets the given columns on the row with id. No matching row is not
// an error.
func (t *Table) Update(ctx context.Context, id string, patch entity.Row) error {
	if len(patch) == 0 {
		return nil
	}
	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	for _, c := range t.info.Columns {
		v, ok := patch[c.Name]
		if !ok {
			continue
		}
		sets = append(sets, quoteIdent(c.Name)+" = ?")
		args = append(args, encodeValue(c, v))
	}
	if len(sets) != len(patch) {
		return fmt.Errorf("update %s: patch names unknown columns", t.name)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quoteIdent(t.name), strings.Join(sets, ", "))
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return nil
}

// Delete removes the row with id, if any.
func (t *Table) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteIdent(t.name))
	if _, err := t.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

// DeleteNotIn removes every row whose id is not in keep. An empty keep
// empties the table.
func (t *Table) DeleteNotIn(ctx context.Context, keep []string) error {
	query := fmt.Sprintf("DELETE FROM %s", quoteIdent(t.name))
	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}
	if len(keep) > 0 {
		query += fmt.Sprintf(" WHERE id NOT IN (%s)", placeholders(len(keep)))
	}
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete not in %s: %w", t.name, err)
	}
	return nil
}

// Upsert inserts rows, replacing every column of rows whose id already
// exists. All rows are written in one transaction.
func (t *Table) Upsert(ctx context.Context, rows []entity.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert %s: begin tx: %w", t.name, err)
	}
	defer tx.Rollback() // No-op if committed

	names := t.info.ColumnNames()
	cols := make([]string, len(names))
	updates := make([]string, 0, len(names)-1)
	for i, n := range names {
		cols[i] = quoteIdent(n)
		if n != entity.IDColumn {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", quoteIdent(n), quoteIdent(n)))
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		quoteIdent(t.name), strings.Join(cols, ", "), placeholders(len(cols)), strings.Join(updates, ", "))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("upsert %s: prepare: %w", t.name, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		args := make([]any, len(t.info.Columns))
		for i, c := range t.info.Columns {
			args[i] = encodeValue(c, row[c.Name])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("upsert %s: row %q: %w", t.name, row.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert %s: commit: %w", t.name, err)
	}
	return nil
}

// rowArgs returns the quoted column names and encoded values for every
// schema column, in schema order.
func (t *Table) rowArgs(row entity.Row) ([]string, []any) {
	cols := make([]string, len(t.info.Columns))
	args := make([]any, len(t.info.Columns))
	for i, c := range t.info.Columns {
		cols[i] = quoteIdent(c.Name)
		args[i] = encodeValue(c, row[c.Name])
	}
	return cols, args
}

func createTableSQL(name string, info entity.KindInfo) string {
	defs := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		if c.Name == entity.IDColumn {
			defs[i] = quoteIdent(c.Name) + " TEXT PRIMARY KEY"
			continue
		}
		defs[i] = quoteIdent(c.Name) + " " + sqlType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quoteIdent(name), strings.Join(defs, ",\n\t"))
}

func sqlType(t entity.ColumnType) string {
	switch t {
	case entity.ColumnInteger, entity.ColumnBool:
		return "INTEGER"
	case entity.ColumnReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func encodeValue(c entity.Column, v any) any {
	if v == nil {
		return nil
	}
	switch c.Type {
	case entity.ColumnBool:
		if b, ok := v.(bool); ok && b {
			return int64(1)
		}
		return int64(0)
	case entity.ColumnJSON:
		if raw, ok := v.(json.RawMessage); ok {
			return string(raw)
		}
	}
	return v
}

func decodeValue(c entity.Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Type {
	case entity.ColumnText:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	case entity.ColumnInteger:
		switch n := v.(type) {
		case int64:
			return n, nil
		case float64:
			return int64(n), nil
		}
	case entity.ColumnReal:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case entity.ColumnBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	case entity.ColumnJSON:
		switch s := v.(type) {
		case string:
			return json.RawMessage(s), nil
		case []byte:
			return json.RawMessage(append([]byte(nil), s...)), nil
		}
	}
	return nil, fmt.Errorf("column %q: unexpected %s value %T", c.Name, c.Type, v)
}

func columnList(info entity.KindInfo) string {
	cols := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		cols[i] = quoteIdent(c.Name)
	}
	return strings.Join(cols, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
