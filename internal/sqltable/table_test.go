package sqltable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
)

func TestTable_InsertSelect(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)

	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Milch"})))
	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "2", Name: "Brot", Checked: true})))

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]entity.Row{}
	for _, r := range rows {
		byID[r.ID()] = r
	}
	assert.Equal(t, "Milch", byID["1"]["name"])
	assert.Equal(t, false, byID["1"]["checked"])
	assert.Equal(t, true, byID["2"]["checked"])
	assert.Nil(t, byID["2"]["note"])
}

func TestTable_InsertDuplicateID(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)

	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Milch"})))
	err := tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Eier"}))
	assert.Error(t, err)

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Milch", rows[0]["name"], "original row must survive")
}

func TestTable_Update(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)
	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Milch", Note: "1,5%"})))

	require.NoError(t, tbl.Update(ctx, "1", entity.Row{"checked": true}))
	require.NoError(t, tbl.Update(ctx, "missing", entity.Row{"checked": true}))
	require.NoError(t, tbl.Update(ctx, "1", entity.Row{}))

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["checked"])
	assert.Equal(t, "1,5%", rows[0]["note"])
}

func TestTable_UpdateUnknownColumn(t *testing.T) {
	tbl := createTestTable(t)
	err := tbl.Update(context.Background(), "1", entity.Row{"color": "red"})
	assert.Error(t, err)
}

func TestTable_Delete(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)
	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Milch"})))

	require.NoError(t, tbl.Delete(ctx, "1"))
	require.NoError(t, tbl.Delete(ctx, "1"))

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTable_DeleteNotIn(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: id, Name: id})))
	}

	require.NoError(t, tbl.DeleteNotIn(ctx, []string{"2", "9"}))
	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, rowIDs(rows))

	require.NoError(t, tbl.DeleteNotIn(ctx, nil))
	rows, err = tbl.SelectAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTable_Upsert(t *testing.T) {
	ctx := context.Background()
	tbl := createTestTable(t)
	require.NoError(t, tbl.Insert(ctx, shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Milch", Note: "bio"})))

	err := tbl.Upsert(ctx, []entity.Row{
		shoppingRow(t, entity.ShoppingItem{ID: "1", Name: "Hafermilch"}),
		shoppingRow(t, entity.ShoppingItem{ID: "2", Name: "Brot"}),
	})
	require.NoError(t, err)

	rows, err := tbl.SelectAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, rowIDs(rows))
	for _, r := range rows {
		if r.ID() == "1" {
			assert.Equal(t, "Hafermilch", r["name"])
			assert.Nil(t, r["note"], "upsert replaces the whole row")
		}
	}

	assert.NoError(t, tbl.Upsert(ctx, nil))
}

func TestTable_JSONAndRealColumns(t *testing.T) {
	ctx := context.Background()
	d := createTestDB(t)

	plans, err := d.OpenTable(ctx, "meal_plans", entity.MustLookup(entity.KindMealPlans))
	require.NoError(t, err)
	plan := entity.MealPlan{ID: "m", Day: "Montag", MealName: "Suppe", Ingredients: []string{"Karotten"}, RecipeHint: "kochen"}
	row, err := entity.ToRow(entity.MustLookup(entity.KindMealPlans), plan)
	require.NoError(t, err)
	require.NoError(t, plans.Insert(ctx, row))

	rows, err := plans.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got, err := entity.FromRow[entity.MealPlan](entity.MustLookup(entity.KindMealPlans), rows[0])
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	favs, err := d.OpenTable(ctx, "weather_favs", entity.MustLookup(entity.KindWeatherFavs))
	require.NoError(t, err)
	loc := entity.SavedLocation{ID: "w", Name: "Hamburg", Lat: 53.55, Lng: 10}
	row, err = entity.ToRow(entity.MustLookup(entity.KindWeatherFavs), loc)
	require.NoError(t, err)
	require.NoError(t, favs.Insert(ctx, row))

	rows, err = favs.SelectAll(ctx)
	require.NoError(t, err)
	gotLoc, err := entity.FromRow[entity.SavedLocation](entity.MustLookup(entity.KindWeatherFavs), rows[0])
	require.NoError(t, err)
	assert.Equal(t, loc, gotLoc)
}
