package cqltable

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
)

func TestCreateTableCQL(t *testing.T) {
	got := createTableCQL("household_tasks", entity.MustLookup(entity.KindHouseholdTasks))
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "household_tasks" (id text PRIMARY KEY, "title" text, "done" boolean, "assignedTo" text, "type" text, "priority" text, "note" text)`, got)
}

func TestInsertCQL(t *testing.T) {
	info := entity.MustLookup(entity.KindRecipes)
	row, err := entity.ToRow(info, entity.Recipe{ID: "r", Name: "Suppe", Ingredients: []string{"Wasser"}})
	require.NoError(t, err)

	stmt, args := insertCQL("recipes", info, row)
	assert.Equal(t, `INSERT INTO "recipes" ("id", "name", "ingredients", "image", "description") VALUES (?, ?, ?, ?, ?)`, stmt)
	assert.Equal(t, []any{"r", "Suppe", `["Wasser"]`, nil, nil}, args)
}

func TestUpdateCQL(t *testing.T) {
	info := entity.MustLookup(entity.KindShopping)

	stmt, args, err := updateCQL("shopping", info, "1", entity.Row{"checked": true})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "shopping" SET "checked" = ? WHERE id = ? IF EXISTS`, stmt)
	assert.Equal(t, []any{true, "1"}, args)

	_, _, err = updateCQL("shopping", info, "1", entity.Row{"id": "2"})
	assert.Error(t, err)

	_, _, err = updateCQL("shopping", info, "1", entity.Row{"nope": 1})
	assert.Error(t, err)
}

func TestDecodeValue(t *testing.T) {
	text := entity.Column{Name: "assignedTo", Type: entity.ColumnText}
	v, err := decodeValue(text, "3", nil)
	require.NoError(t, err)
	assert.Equal(t, "3", v, "lowercased key is accepted")

	v, err = decodeValue(text, nil, "")
	require.NoError(t, err)
	assert.Nil(t, v)

	jsonCol := entity.Column{Name: "ingredients", Type: entity.ColumnJSON}
	v, err = decodeValue(jsonCol, nil, `["a"]`)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`["a"]`), v)

	_, err = decodeValue(entity.Column{Name: "done", Type: entity.ColumnBool}, nil, "yes")
	assert.Error(t, err)
}

func TestConnect_Validation(t *testing.T) {
	_, err := Connect(Options{Keyspace: "hearth"})
	assert.Error(t, err)
	_, err = Connect(Options{Hosts: []string{"127.0.0.1"}})
	assert.Error(t, err)
}

func TestTable_Live(t *testing.T) {
	hosts := os.Getenv("HEARTH_CASSANDRA_HOSTS")
	if hosts == "" {
		t.Skip("HEARTH_CASSANDRA_HOSTS not set")
	}
	ctx := context.Background()
	c, err := Connect(Options{Hosts: strings.Split(hosts, ","), Keyspace: "hearth_test", Consistency: "one"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	info := entity.MustLookup(entity.KindShopping)
	tbl, err := c.OpenTable(ctx, "shopping_live", info)
	require.NoError(t, err)
	require.NoError(t, tbl.DeleteNotIn(ctx, nil))

	row, err := entity.ToRow(info, entity.ShoppingItem{ID: "1", Name: "Milch"})
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(ctx, row))
	assert.Error(t, tbl.Insert(ctx, row), "duplicate id is rejected")

	require.NoError(t, tbl.Update(ctx, "1", entity.Row{"checked": true}))
	require.NoError(t, tbl.Update(ctx, "missing", entity.Row{"checked": true}))

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["checked"])
}
