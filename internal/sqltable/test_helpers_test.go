package sqltable

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/hearth/internal/entity"
)

// createTestDB opens a fresh database in a temp dir.
func createTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// createTestTable opens the shopping table in a fresh database.
func createTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := createTestDB(t).OpenTable(context.Background(), "shopping", entity.MustLookup(entity.KindShopping))
	if err != nil {
		t.Fatalf("OpenTable() failed: %v", err)
	}
	return tbl
}

func shoppingRow(t *testing.T, item entity.ShoppingItem) entity.Row {
	t.Helper()
	row, err := entity.ToRow(entity.MustLookup(entity.KindShopping), item)
	if err != nil {
		t.Fatalf("ToRow() failed: %v", err)
	}
	return row
}

func rowIDs(rows []entity.Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID()
	}
	return ids
}
