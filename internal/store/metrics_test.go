package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/kv"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	table := newMemTable("shopping")
	remote := newShoppingRemote(t, table, WithMetrics(m))
	remote.Add(ctx, item("1", "Milch", false))
	table.failOn("insert", errBoom)
	remote.Add(ctx, item("2", "Brot", false))

	local := newShoppingLocal(t, kv.NewMemoryStore(), nil, WithMetrics(m))
	local.GetAll(ctx)

	ops := m.Operations()
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("shopping", "remote", "add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("shopping", "remote", "add", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("shopping", "local", "get_all", "ok")))

	n, err := testutil.GatherAndCount(reg, "hearth_store_operation_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUnknownPatchField_RejectedByBothBackends(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	milch := []entity.ShoppingItem{item("1", "Milch", false)}

	mem := kv.NewMemoryStore()
	local := newShoppingLocal(t, mem, nil, WithMetrics(m))
	local.SetAll(ctx, milch)
	before, _, err := mem.Get(ctx, entity.MustLookup(entity.KindShopping).Key)
	require.NoError(t, err)

	remote := newShoppingRemote(t, newMemTable("shopping"), WithMetrics(m))
	remote.SetAll(ctx, milch)

	assert.Equal(t, milch, local.Update(ctx, "1", Patch{"colour": "white"}))
	assert.Equal(t, milch, remote.Update(ctx, "1", Patch{"colour": "white"}))

	after, _, err := mem.Get(ctx, entity.MustLookup(entity.KindShopping).Key)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	ops := m.Operations()
	for _, backend := range []string{"local", "remote"} {
		assert.Equal(t, 0.0, testutil.ToFloat64(ops.WithLabelValues("shopping", backend, "update", "ok")), backend)
		assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("shopping", backend, "update", "error")), backend)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	c := newShoppingLocal(t, kv.NewMemoryStore(), nil, WithMetrics(nil))
	assert.NotPanics(t, func() { c.Add(context.Background(), item("1", "Milch", false)) })
}

func TestOnceNotifier_ForwardsFirstOnly(t *testing.T) {
	rec := &recordingNotifier{}
	n := NewOnceNotifier(rec)
	n.StorageUnavailable(entity.KindShopping, errBoom)
	n.StorageUnavailable(entity.KindFamily, errBoom)

	assert.Equal(t, 1, rec.count())
	assert.Equal(t, entity.KindShopping, rec.kinds[0])
}
