// Package cqltable provides Cassandra-backed tables for remote collections.
//
// Cassandra has no NOT IN delete and no multi-partition transactions, so
// DeleteNotIn reads the id column and deletes the missing ids one by one,
// and Upsert writes each row as its own INSERT (which overwrites in CQL).
package cqltable

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"github.com/roach88/hearth/internal/entity"
)

// Options configures the cluster connection.
type Options struct {
	Hosts          []string
	Keyspace       string
	Consistency    string
	ConnectTimeout time.Duration
}

// Cluster is a session bound to one keyspace.
type Cluster struct {
	session  *gocql.Session
	keyspace string
}

// Connect creates a session for opts.Keyspace.
func Connect(opts Options) (*Cluster, error) {
	if len(opts.Hosts) == 0 {
		return nil, fmt.Errorf("cassandra: at least one host is required")
	}
	if opts.Keyspace == "" {
		return nil, fmt.Errorf("cassandra: keyspace is required")
	}
	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Keyspace = opts.Keyspace
	cluster.Consistency = gocql.Quorum
	if opts.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(opts.Consistency)
		if err != nil {
			return nil, fmt.Errorf("cassandra: %w", err)
		}
		cluster.Consistency = c
	}
	cluster.NumConns = 2
	if opts.ConnectTimeout > 0 {
		cluster.ConnectTimeout = opts.ConnectTimeout
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("cassandra: create session: %w", err)
	}
	return &Cluster{session: session, keyspace: opts.Keyspace}, nil
}

// Close closes the session.
func (c *Cluster) Close() error {
	c.session.Close()
	return nil
}

// OpenTable creates the table if needed and returns a handle to it.
func (c *Cluster) OpenTable(ctx context.Context, name string, info entity.KindInfo) (*Table, error) {
	if err := c.session.Query(createTableCQL(name, info)).WithContext(ctx).Exec(); err != nil {
		return nil, fmt.Errorf("ensure table %s: %w", name, err)
	}
	return &Table{session: c.session, name: name, info: info}, nil
}

// Table is one collection's rows in Cassandra.
type Table struct {
	session *gocql.Session
	name    string
	info    entity.KindInfo
}

func (t *Table) Name() string { return t.name }

func (t *Table) SelectAll(ctx context.Context) ([]entity.Row, error) {
	iter := t.session.Query(selectAllCQL(t.name, t.info)).WithContext(ctx).Iter()
	out := []entity.Row{}
	for {
		m := map[string]any{}
		if !iter.MapScan(m) {
			break
		}
		row := make(entity.Row, len(t.info.Columns))
		for _, c := range t.info.Columns {
			v, err := decodeValue(c, m[strings.ToLower(c.Name)], m[c.Name])
			if err != nil {
				iter.Close()
				return nil, fmt.Errorf("select %s: %w", t.name, err)
			}
			row[c.Name] = v
		}
		out = append(out, row)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return out, nil
}

// Insert writes a row only if its id is free, so a duplicate id leaves the
// existing row in place.
func (t *Table) Insert(ctx context.Context, row entity.Row) error {
	stmt, args := insertCQL(t.name, t.info, row)
	applied, err := t.session.Query(stmt+" IF NOT EXISTS", args...).WithContext(ctx).MapScanCAS(map[string]any{})
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	if !applied {
		return fmt.Errorf("insert %s: id %q already exists", t.name, row.ID())
	}
	return nil
}

// Update uses IF EXISTS so that a missing id does not create a row.
func (t *Table) Update(ctx context.Context, id string, patch entity.Row) error {
	if len(patch) == 0 {
		return nil
	}
	stmt, args, err := updateCQL(t.name, t.info, id, patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	if _, err := t.session.Query(stmt, args...).WithContext(ctx).MapScanCAS(map[string]any{}); err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return nil
}

func (t *Table) Delete(ctx context.Context, id string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteIdent(t.name))
	if err := t.session.Query(stmt, id).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return nil
}

// DeleteNotIn reads all ids and deletes those not in keep.
func (t *Table) DeleteNotIn(ctx context.Context, keep []string) error {
	keepSet := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}

	iter := t.session.Query(fmt.Sprintf("SELECT id FROM %s", quoteIdent(t.name))).WithContext(ctx).Iter()
	var doomed []string
	var id string
	for iter.Scan(&id) {
		if _, ok := keepSet[id]; !ok {
			doomed = append(doomed, id)
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("delete not in %s: %w", t.name, err)
	}

	for _, id := range doomed {
		if err := t.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete not in %s: %w", t.name, err)
		}
	}
	return nil
}

// Upsert writes each row with a plain INSERT, which replaces existing rows.
// Rows are sent in one unlogged batch.
func (t *Table) Upsert(ctx context.Context, rows []entity.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := t.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, row := range rows {
		stmt, args := insertCQL(t.name, t.info, row)
		batch.Query(stmt, args...)
	}
	if err := t.session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("upsert %s: %w", t.name, err)
	}
	return nil
}

func createTableCQL(name string, info entity.KindInfo) string {
	defs := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		if c.Name == entity.IDColumn {
			defs[i] = "id text PRIMARY KEY"
			continue
		}
		defs[i] = quoteIdent(c.Name) + " " + cqlType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
}

func selectAllCQL(name string, info entity.KindInfo) string {
	cols := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		cols[i] = quoteIdent(c.Name)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteIdent(name))
}

func insertCQL(name string, info entity.KindInfo, row entity.Row) (string, []any) {
	cols := make([]string, len(info.Columns))
	args := make([]any, len(info.Columns))
	for i, c := range info.Columns {
		cols[i] = quoteIdent(c.Name)
		args[i] = encodeValue(c, row[c.Name])
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(name), strings.Join(cols, ", "), marks), args
}

func updateCQL(name string, info entity.KindInfo, id string, patch entity.Row) (string, []any, error) {
	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	for _, c := range info.Columns {
		v, ok := patch[c.Name]
		if !ok {
			continue
		}
		if c.Name == entity.IDColumn {
			return "", nil, fmt.Errorf("primary key cannot be updated")
		}
		sets = append(sets, quoteIdent(c.Name)+" = ?")
		args = append(args, encodeValue(c, v))
	}
	if len(sets) != len(patch) {
		return "", nil, fmt.Errorf("patch names unknown columns")
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ? IF EXISTS", quoteIdent(name), strings.Join(sets, ", ")), args, nil
}

func cqlType(t entity.ColumnType) string {
	switch t {
	case entity.ColumnInteger:
		return "bigint"
	case entity.ColumnReal:
		return "double"
	case entity.ColumnBool:
		return "boolean"
	default:
		return "text"
	}
}

func encodeValue(c entity.Column, v any) any {
	if raw, ok := v.(json.RawMessage); ok && c.Type == entity.ColumnJSON {
		return string(raw)
	}
	return v
}

// decodeValue accepts the value under the lowercased and the exact column
// name, since MapScan keys follow the server's spelling.
func decodeValue(c entity.Column, lower, exact any) (any, error) {
	v := exact
	if v == nil {
		v = lower
	}
	if v == nil {
		return nil, nil
	}
	switch c.Type {
	case entity.ColumnText:
		if s, ok := v.(string); ok {
			if s == "" {
				// CQL returns "" for null text columns.
				return nil, nil
			}
			return s, nil
		}
	case entity.ColumnInteger:
		if n, ok := v.(int64); ok {
			return n, nil
		}
	case entity.ColumnReal:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case entity.ColumnBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case entity.ColumnJSON:
		if s, ok := v.(string); ok {
			if s == "" {
				return nil, nil
			}
			return json.RawMessage(s), nil
		}
	}
	return nil, fmt.Errorf("column %q: unexpected %s value %T", c.Name, c.Type, v)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
