package store

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/kv"
)

func assertBlobGolden(t *testing.T, name string, mem *kv.MemoryStore, key string) {
	t.Helper()
	data, ok, err := mem.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "blob %s not written", key)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

func TestLocalBlobFormat_Shopping(t *testing.T) {
	mem := kv.NewMemoryStore()
	c := newShoppingLocal(t, mem, nil)
	c.SetAll(context.Background(), []entity.ShoppingItem{item("1", "Milch", false), item("2", "Brot", true)})

	assertBlobGolden(t, "shopping_blob", mem, "fh_shopping")
}

func TestLocalBlobFormat_Events(t *testing.T) {
	mem := kv.NewMemoryStore()
	c, err := NewLocalCollection[entity.CalendarEvent](mem, entity.KindEvents, nil, WithLogger(discardLogger()))
	require.NoError(t, err)
	c.Add(context.Background(), entity.CalendarEvent{
		ID:         "1",
		Title:      "Fußballtraining Leo",
		Date:       "2026-10-19",
		Time:       "17:00",
		EndTime:    "18:30",
		Location:   "Sportplatz",
		AssignedTo: []string{"3"},
	})

	assertBlobGolden(t, "events_blob", mem, "fh_events")
}
